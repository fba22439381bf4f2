package i18n

import "golang.org/x/text/language"

// messages maps locale → key → text. Literal percent signs are doubled
// because every entry is a format string.
var messages = map[language.Tag]map[string]string{
	language.English: {
		"category.empty":    "Type a password to begin",
		"category.weak":     "Weak password",
		"category.moderate": "Moderate password",
		"category.strong":   "Strong password",

		"criterion.length":    "At least 8 characters",
		"criterion.lowercase": "Lowercase letter (a-z)",
		"criterion.uppercase": "Uppercase letter (A-Z)",
		"criterion.number":    "Number (0-9)",
		"criterion.special":   "Special character",

		"need_length":    "Add more characters (minimum 8, 12+ recommended)",
		"need_lowercase": "Include at least one lowercase letter (a-z)",
		"need_uppercase": "Include at least one uppercase letter (A-Z)",
		"need_number":    "Add at least one number (0-9)",
		"need_special":   "Use special characters (!@#$%%^&*)",

		"common_sequence": `Avoid common sequences like "123" or "abc"`,
		"repetition":      "Reduce character repetition",
		"longer":          "Consider using 12 or more characters for extra security",

		"praise_strong":    "Excellent! Your password is strong",
		"password_manager": "Consider using a password manager",
		"rotate":           "Change your passwords regularly",

		"general_length":   "Use at least 8 characters",
		"general_case":     "Mix uppercase and lowercase letters",
		"general_numbers":  "Include numbers",
		"general_special":  "Use special characters",
		"general_personal": "Avoid personal information",
		"general_common":   "Don't use common or sequential passwords",

		"pattern.repetition":          "Repeated characters",
		"pattern.numeric_sequence":    "Numeric sequence",
		"pattern.alphabetic_sequence": "Alphabetic sequence",

		"crack.less_than_minute":  "less than a minute",
		"crack.thousands_of_years": "thousands of years",

		"policy.rejected": "Password rejected by policy",
		"generate.hint":   "Use the generator to create a secure password",

		"analysis.length":     "Length",
		"analysis.charset":    "Character set size",
		"analysis.entropy":    "Entropy (bits)",
		"analysis.unique":     "Unique characters",
		"analysis.crack_time": "Estimated crack time",
	},
	language.BrazilianPortuguese: {
		"category.empty":    "Digite uma senha para começar",
		"category.weak":     "Senha Fraca",
		"category.moderate": "Senha Moderada",
		"category.strong":   "Senha Forte",

		"criterion.length":    "Pelo menos 8 caracteres",
		"criterion.lowercase": "Letra minúscula (a-z)",
		"criterion.uppercase": "Letra maiúscula (A-Z)",
		"criterion.number":    "Número (0-9)",
		"criterion.special":   "Caractere especial",

		"need_length":    "Adicione mais caracteres (mínimo 8, recomendado 12+)",
		"need_lowercase": "Inclua pelo menos uma letra minúscula (a-z)",
		"need_uppercase": "Inclua pelo menos uma letra maiúscula (A-Z)",
		"need_number":    "Adicione pelo menos um número (0-9)",
		"need_special":   "Use caracteres especiais (!@#$%%^&*)",

		"common_sequence": `Evite sequências comuns como "123" ou "abc"`,
		"repetition":      "Reduza a repetição de caracteres",
		"longer":          "Considere usar 12 ou mais caracteres para maior segurança",

		"praise_strong":    "Excelente! Sua senha está forte",
		"password_manager": "Considere usar um gerenciador de senhas",
		"rotate":           "Mude suas senhas regularmente",

		"general_length":   "Use pelo menos 8 caracteres",
		"general_case":     "Misture letras maiúsculas e minúsculas",
		"general_numbers":  "Inclua números",
		"general_special":  "Use caracteres especiais",
		"general_personal": "Evite informações pessoais",
		"general_common":   "Não use senhas comuns ou sequenciais",

		"pattern.repetition":          "Repetição de caracteres",
		"pattern.numeric_sequence":    "Sequência numérica",
		"pattern.alphabetic_sequence": "Sequência alfabética",

		"crack.less_than_minute":  "Menos de 1 minuto",
		"crack.thousands_of_years": "Milhares de anos",

		"policy.rejected": "Senha rejeitada pela política",
		"generate.hint":   "Use o gerador para criar uma senha segura",

		"analysis.length":     "Comprimento",
		"analysis.charset":    "Tamanho do conjunto de caracteres",
		"analysis.entropy":    "Entropia (bits)",
		"analysis.unique":     "Caracteres únicos",
		"analysis.crack_time": "Tempo estimado para quebrar",
	},
}

// counted holds messages that take a count, as {singular, plural} forms.
var counted = map[language.Tag]map[string][2]string{
	language.English: {
		"crack.minutes": {"%d minute", "%d minutes"},
		"crack.hours":   {"%d hour", "%d hours"},
		"crack.days":    {"%d day", "%d days"},
		"crack.years":   {"%d year", "%d years"},
	},
	language.BrazilianPortuguese: {
		"crack.minutes": {"%d minuto", "%d minutos"},
		"crack.hours":   {"%d hora", "%d horas"},
		"crack.days":    {"%d dia", "%d dias"},
		"crack.years":   {"%d ano", "%d anos"},
	},
}
