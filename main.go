package main

import (
	_ "git.handmade.network/hmn/themecolors/src/locals3"
	"git.handmade.network/hmn/themecolors/src/themecolors"
)

func main() {
	themecolors.ThemeColorsCommand.Execute()
}
