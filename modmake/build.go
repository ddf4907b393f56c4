package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	xrcVersion    = "1.0.0"
	xrcgenVersion = "1.0.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	xrc := NewAppBuild("xrc", "cmd/xrc", xrcVersion)
	xrc.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", xrcVersion).
			CgoEnabled(false)
	})
	xrcgen := NewAppBuild("xrcgen", "cmd/xrcgen", xrcgenVersion)
	xrcgen.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", xrcgenVersion).
			CgoEnabled(false)
	})
	for _, app := range []*AppBuild{xrc, xrcgen} {
		app.Variant("windows", "amd64")
		app.Variant("linux", "amd64")
		app.Variant("linux", "arm64")
		app.Variant("darwin", "amd64")
		app.Variant("darwin", "arm64")
		b.ImportApp(app)
	}

	b.Execute()
}
