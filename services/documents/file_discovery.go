package documents

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverFiles walks rootPath and returns every file with an allowed type.
// Hidden files and directories are skipped. A plain file path is returned as is.
func (s *Service) DiscoverFiles(rootPath string) ([]string, error) {
	var files []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Error("could not walk through file or directory", "path", path, "err", err.Error())
			if errors.Is(err, os.ErrPermission) {
				return nil
			}
			return err
		}

		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			return filepath.SkipDir
		}

		if info.IsDir() || (strings.HasPrefix(info.Name(), ".") && path != rootPath) {
			return nil
		}

		if _, ok := s.allowedFileTypes[fileType(path)]; !ok {
			s.logger.Debug("skipping file with unsupported type", "path", path)
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}
