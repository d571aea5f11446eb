package service

import "github.com/passgen/passgen-go/internal/model"

var securityTips = []model.Tip{
	{Text: "Use at least 12-16 characters for max security."},
	{Text: "Avoid reusing passwords."},
	{Text: "Mix uppercase, lowercase, numbers, and symbols."},
	{Text: "Never share your passwords!"},
	{Text: "Consider using a password manager."},
}

// Tips returns the security advice shown next to the generator.
func Tips() []model.Tip {
	return append([]model.Tip(nil), securityTips...)
}
