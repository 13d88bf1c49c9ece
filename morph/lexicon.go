package morph

func closedClassLexicon() map[string]PartOfSpeech {
	lexicon := make(map[string]PartOfSpeech)

	add := func(partOfSpeech PartOfSpeech, words ...string) {
		for _, word := range words {
			if _, exists := lexicon[word]; !exists {
				lexicon[word] = partOfSpeech
			}
		}
	}

	// Russian
	add(Pronoun,
		"я", "ты", "он", "она", "оно", "мы", "вы", "они", "себя",
		"меня", "мне", "мной", "мною", "тебя", "тебе", "тобой", "тобою",
		"его", "него", "ему", "нему", "им", "ним", "нем", "нём",
		"её", "ее", "неё", "нее", "ей", "ней", "ею", "нею",
		"нас", "нам", "нами", "вас", "вам", "вами", "их", "них", "ими", "ними",
		"себе", "собой", "собою",
		"кто", "кого", "кому", "кем", "ком",
		"что", "чего", "чему", "чем", "чём",
		"никто", "никого", "никому", "никем", "ничто", "ничего", "ничему", "ничем",
		"некто", "нечто", "некого", "нечего", "некому", "нечему", "некем", "нечем",
		"это",
		// indefinite pronouns after the hyphen is stripped
		"ктото", "когото", "комуто", "кемто", "комто",
		"чтото", "чегото", "чемуто", "чемто", "чёмто",
		"ктонибудь", "когонибудь", "комунибудь", "чтонибудь", "чегонибудь", "чемнибудь",
		"ктолибо", "чтолибо", "коекто", "коечто")
	add(Preposition,
		"в", "во", "на", "за", "по", "к", "ко", "с", "со", "из", "от", "до",
		"о", "об", "обо", "у", "для", "без", "под", "подо", "над", "при", "про",
		"через", "между", "перед", "передо", "среди", "около", "возле", "после",
		"против", "ради", "сквозь", "вдоль", "мимо", "кроме", "вместо", "изза", "изпод",
		"вне", "благодаря", "насчет", "насчёт", "согласно", "вследствие", "ввиду",
		"вроде", "сверх", "помимо", "спустя", "ото", "изо", "безо", "пред")
	add(Conjunction,
		"и", "а", "но", "или", "либо", "да", "чтобы", "если", "когда", "как",
		"хотя", "зато", "однако", "ибо", "будто", "словно", "пока", "причем", "причём", "притом",
		"поскольку", "итак", "нежели", "дабы", "чтоб", "ежели", "коли", "кабы", "покуда",
		"то", "тоесть", "иль", "абы")
	add(Particle,
		"не", "ни", "ли", "же", "ж", "бы", "б", "вот", "вон", "даже", "ведь",
		"лишь", "только", "разве", "неужели", "именно", "тоже", "также", "ка",
		"пусть", "пускай", "уж", "мол", "дескать", "де", "бишь", "неужто", "аж", "ль", "таки")
	add(Interjection,
		"ах", "ох", "ой", "эх", "ай", "увы", "ура", "эй", "ого", "ага", "фу", "ух", "ну", "алло")

	// English
	add(Pronoun,
		"i", "me", "you", "he", "him", "she", "her", "it", "we", "us", "they", "them",
		"my", "your", "his", "its", "our", "their", "mine", "yours", "hers", "ours", "theirs",
		"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves",
		"who", "whom", "whose", "what", "which",
		"someone", "anyone", "everyone", "something", "anything", "everything", "nothing", "nobody")
	add(Preposition,
		"in", "on", "at", "to", "for", "of", "with", "by", "from", "about", "into", "onto",
		"over", "under", "between", "through", "during", "before", "after", "above", "below",
		"without", "within", "against", "among", "around", "upon", "via")
	add(Conjunction,
		"and", "or", "but", "nor", "because", "although", "though", "if", "while",
		"whereas", "unless", "than", "that", "as")
	add(Particle, "not")
	add(Interjection, "oh", "ah", "hey", "wow", "ouch", "oops", "alas")

	return lexicon
}
