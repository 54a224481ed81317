package cli

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys for the localized parts of the reports.
const (
	msgUpgraded     = "PROJECT UPGRADED TO v%s!"
	msgCreated      = "PROJECT CREATED SUCCESSFULLY!"
	msgChanges      = "Changes:"
	msgPreserved    = "Preserved:"
	msgNextSteps    = "Next steps:"
	msgResume       = "Run %s to resume your project."
	msgStepCD       = "cd %s"
	msgStepOpen     = "Open your %s project here (or create new)"
	msgStepClaude   = "Start Claude Code: %s"
	msgStepInit     = "Run: %s"
	msgNewFeatures  = "New features available:"
	msgWillPreserve = "Will preserve:"
)

func init() {
	fr := language.French
	for key, text := range map[string]string{
		msgUpgraded:     "PROJET MIS A JOUR VERS v%s !",
		msgCreated:      "PROJET CREE AVEC SUCCES !",
		msgChanges:      "Modifications :",
		msgPreserved:    "Preserve :",
		msgNextSteps:    "Prochaines etapes :",
		msgResume:       "Executez %s pour reprendre votre projet.",
		msgStepCD:       "cd %s",
		msgStepOpen:     "Ouvrez votre projet %s ici (ou creez-en un)",
		msgStepClaude:   "Lancez Claude Code : %s",
		msgStepInit:     "Executez : %s",
		msgNewFeatures:  "Nouvelles fonctionnalites :",
		msgWillPreserve: "Sera preserve :",
	} {
		_ = message.SetString(fr, key, text)
	}
}

// printerFor returns a printer for a workspace language code. Unknown
// codes fall back to English.
func printerFor(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}
