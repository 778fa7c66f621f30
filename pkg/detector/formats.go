package detector

import "regexp"

// EngineFormat describes the banner a TeX engine prints when it starts.
type EngineFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Banner pattern; group 1 captures the version
	Binaries   []string       // Executables that print this banner
	Examples   []string       // Example banner lines
}

// DefaultEngines returns the built-in engine banners to detect.
// LuaHBTeX precedes LuaTeX and the Japanese engines precede e-TeX since their
// banners share prefixes.
func DefaultEngines() []*EngineFormat {
	engines := []*EngineFormat{
		{
			Name:       "pdfTeX",
			PatternStr: `^This is pdfTeX, Version (\S+)`,
			Binaries:   []string{"pdflatex", "pdftex"},
			Examples:   []string{"This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)"},
		},
		{
			Name:       "XeTeX",
			PatternStr: `^This is XeTeX, Version (\S+)`,
			Binaries:   []string{"xelatex", "xetex"},
			Examples:   []string{"This is XeTeX, Version 3.141592653-2.6-0.999995 (TeX Live 2023) (preloaded format=xelatex)"},
		},
		{
			Name:       "LuaHBTeX",
			PatternStr: `^This is LuaHBTeX, Version (\S+)`,
			Binaries:   []string{"lualatex", "luahbtex"},
			Examples:   []string{"This is LuaHBTeX, Version 1.17.0 (TeX Live 2023)"},
		},
		{
			Name:       "LuaTeX",
			PatternStr: `^This is LuaTeX, Version (\S+)`,
			Binaries:   []string{"lualatex", "luatex"},
			Examples:   []string{"This is LuaTeX, Version 1.10.0 (TeX Live 2019)"},
		},
		{
			Name:       "e-upTeX",
			PatternStr: `^This is e-upTeX, Version (\S+)`,
			Binaries:   []string{"uplatex", "euptex"},
			Examples:   []string{"This is e-upTeX, Version 3.141592653-p4.1.0-u1.29-230214-2.6 (utf8.uptex) (TeX Live 2023)"},
		},
		{
			Name:       "e-pTeX",
			PatternStr: `^This is e-pTeX, Version (\S+)`,
			Binaries:   []string{"platex", "eptex"},
			Examples:   []string{"This is e-pTeX, Version 3.141592653-p4.1.0-230214-2.6 (utf8.euc) (TeX Live 2023)"},
		},
		{
			Name:       "e-TeX",
			PatternStr: `^This is e-TeX, Version (\S+)`,
			Binaries:   []string{"etex"},
			Examples:   []string{"This is e-TeX, Version 3.141592653-2.6 (TeX Live 2023)"},
		},
		{
			Name:       "TeX",
			PatternStr: `^This is TeX, Version (\S+)`,
			Binaries:   []string{"tex"},
			Examples:   []string{"This is TeX, Version 3.141592653 (TeX Live 2023)"},
		},
	}

	for _, e := range engines {
		e.Pattern = regexp.MustCompile(e.PatternStr)
	}

	return engines
}
