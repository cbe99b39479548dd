package views

import "fmt"

// Color is a 24-bit RGB color.
type Color uint32

// CSS returns the color as a #RRGGBB string.
func (c Color) CSS() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// Credit is a generator credited in the footer.
type Credit struct {
	Name string
	URL  string
}

// Style holds the theme's constants. It is passed by value into the composer
// and serializer; there is no package-level theme state.
type Style struct {
	SecondaryText   Color
	CardBackground  Color
	BadgeBackground Color
	BadgeText       Color

	FontFamily      string
	ContentWidth    int // px
	VerticalPadding int // px, above and below the content column
	HeaderFontSize  int // px
	CardPadding     int // px
	CardRadius      int // px
	BadgeRadius     int // px
	TagSpacing      int // px

	// ShowTaggedWithLabel prefixes an item's tag row with "Tagged with:".
	ShowTaggedWithLabel bool

	Credits []Credit
}

// DefaultStyle returns the blog theme.
func DefaultStyle() Style {
	return Style{
		SecondaryText:   0x8A8A8A,
		CardBackground:  0xEEEEEE,
		BadgeBackground: 0x000000,
		BadgeText:       0xFFFFFF,
		FontFamily:      `-apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif`,
		ContentWidth:    820,
		VerticalPadding: 40,
		HeaderFontSize:  64,
		CardPadding:     20,
		CardRadius:      8,
		BadgeRadius:     5,
		TagSpacing:      5,
		Credits: []Credit{
			{Name: "pubsite", URL: "https://github.com/eringen/pubsite"},
			{Name: "templ", URL: "https://github.com/a-h/templ"},
		},
	}
}

// stylesheet renders the theme's CSS. Output depends only on s.
func (s Style) stylesheet() string {
	return fmt.Sprintf(`body{margin:0;font-family:%[1]s;display:flex;flex-direction:column;align-items:center}
.stack{display:flex}
.stack-v{flex-direction:column;align-items:flex-start}
.stack-h{flex-direction:row;align-items:center;flex-wrap:wrap;gap:%[13]dpx}
.page{align-items:center;width:100%%}
.site-header{display:block;font-size:%[2]dpx;font-weight:700;color:%[3]s;padding:30px 40px;text-align:center;text-decoration:none}
.content{width:100%%;max-width:%[4]dpx;padding:%[5]dpx 0;box-sizing:border-box}
.headline{font-size:1.25em;font-weight:600}
.caption{font-size:.85em}
.content>.caption{padding-bottom:1em}
.item-list{list-style:none;margin:0;padding:0;width:100%%;display:flex;flex-direction:column;gap:12px}
.card{padding:%[6]dpx;background:%[7]s;border-radius:%[8]dpx;gap:4px}
.card a{color:inherit;text-decoration:none}
.tag{display:inline-block;padding:4px 6px;background:%[9]s;color:%[10]s;border-radius:%[11]dpx;text-decoration:none}
.tag-row{gap:%[13]dpx}
.site-footer{color:%[3]s;gap:4px;padding-bottom:%[5]dpx}
.site-footer a{color:inherit}
.underline{text-decoration:underline}
.fragment{width:100%%}
.fragment img{max-width:100%%}
.fragment pre{overflow-x:auto;background:%[7]s;padding:%[12]dpx;border-radius:%[8]dpx}
`,
		s.FontFamily,
		s.HeaderFontSize,
		s.SecondaryText.CSS(),
		s.ContentWidth,
		s.VerticalPadding,
		s.CardPadding,
		s.CardBackground.CSS(),
		s.CardRadius,
		s.BadgeBackground.CSS(),
		s.BadgeText.CSS(),
		s.BadgeRadius,
		s.CardPadding/2,
		s.TagSpacing,
	)
}
