package strength

// Tip levels, used by clients for styling.
const (
	LevelAction  = "action"
	LevelWarning = "warning"
	LevelPraise  = "praise"
	LevelInfo    = "info"
)

// Tip keys. Package i18n holds the text for each key.
const (
	TipNeedLength    = "need_length"
	TipNeedLowercase = "need_lowercase"
	TipNeedUppercase = "need_uppercase"
	TipNeedNumber    = "need_number"
	TipNeedSpecial   = "need_special"

	TipCommonSequence = "common_sequence"
	TipRepetition     = "repetition"
	TipLonger         = "longer"

	TipPraiseStrong    = "praise_strong"
	TipPasswordManager = "password_manager"
	TipRotate          = "rotate"

	TipGeneralLength   = "general_length"
	TipGeneralCase     = "general_case"
	TipGeneralNumbers  = "general_numbers"
	TipGeneralSpecial  = "general_special"
	TipGeneralPersonal = "general_personal"
	TipGeneralCommon   = "general_common"
)

// Tip is one suggestion shown under the strength meter.
type Tip struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "action" | "warning" | "praise" | "info".
	Level string `json:"level"`
}

// GeneralTips returns the fixed advice shown while the field is empty.
func GeneralTips() []Tip {
	return []Tip{
		{Key: TipGeneralLength, Level: LevelInfo},
		{Key: TipGeneralCase, Level: LevelInfo},
		{Key: TipGeneralNumbers, Level: LevelInfo},
		{Key: TipGeneralSpecial, Level: LevelInfo},
		{Key: TipGeneralPersonal, Level: LevelInfo},
		{Key: TipGeneralCommon, Level: LevelInfo},
	}
}

// buildTips derives the ordered suggestion list for an evaluated password.
// Order: unmet criteria in table order, then sequence, repetition and
// length advice, then praise for strong passwords.
func buildTips(password string, res Result) []Tip {
	if password == "" {
		return GeneralTips()
	}

	var tips []Tip
	for i, c := range criteria {
		if !res.Criteria[i].Met {
			tips = append(tips, Tip{Key: c.Tip, Level: LevelAction})
		}
	}

	if res.CommonSequence {
		tips = append(tips, Tip{Key: TipCommonSequence, Level: LevelWarning})
	}
	if res.ExcessiveRepetition {
		tips = append(tips, Tip{Key: TipRepetition, Level: LevelWarning})
	}
	if res.Length < bonusLength {
		tips = append(tips, Tip{Key: TipLonger, Level: LevelInfo})
	}

	if res.Score >= ThresholdStrong {
		tips = append(tips,
			Tip{Key: TipPraiseStrong, Level: LevelPraise},
			Tip{Key: TipPasswordManager, Level: LevelPraise},
			Tip{Key: TipRotate, Level: LevelPraise},
		)
	}
	return tips
}
