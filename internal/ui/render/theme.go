package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HiddenFg    tcell.Color
	ParentBg    tcell.Color
	ParentFg    tcell.Color
	CursorBg    tcell.Color
	CursorFg    tcell.Color
	SelectedFg  tcell.Color
	DirectoryFg tcell.Color
	SymlinkFg   tcell.Color
	BrokenFg    tcell.Color
	FileFg      tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	TabActiveBg tcell.Color
	TabActiveFg tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	PreviewFg   tcell.Color
	MutedFg     tcell.Color
	InfoFg      tcell.Color
	SuccessFg   tcell.Color
	ErrorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HiddenFg:    tcell.ColorLightSlateGray,
		ParentBg:    tcell.Color238,
		ParentFg:    tcell.ColorWhite,
		CursorBg:    tcell.Color33,
		CursorFg:    tcell.ColorWhite,
		SelectedFg:  tcell.Color214, // amber marks picked entries
		DirectoryFg: tcell.Color33,
		SymlinkFg:   tcell.Color51,
		BrokenFg:    tcell.Color160,
		FileFg:      tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		TabActiveBg: tcell.Color33,
		TabActiveFg: tcell.ColorWhite,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		PreviewFg:   tcell.ColorDefault,
		MutedFg:     tcell.Color245,
		InfoFg:      tcell.ColorDefault,
		SuccessFg:   tcell.ColorGreen,
		ErrorFg:     tcell.Color196,
	}
}
