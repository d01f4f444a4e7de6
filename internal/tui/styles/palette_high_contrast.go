package styles

// HighContrastTheme favors legibility on low-quality terminals.
var HighContrastTheme = Theme{
	Name:        "high-contrast",
	BorderStyle: "sharp",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "51",
		Border:     "231",
	},
	Grid: GridColors{
		HourLabel:  "231",
		MinorLabel: "250",
		SlotLine:   "248",
		Now:        "196",
		ZoomHandle: "51",
	},
	Task: TaskColors{
		Done:       "46",
		Pending:    "231",
		Attachment: "195",
	},
	Chrome: ChromeColors{
		Header:       "117",
		Footer:       "159",
		Breadcrumb:   "195",
		SelectedItem: "51",
	},
	Borders: BorderColors{
		ActivePane:   "231",
		InactivePane: "250",
		Divider:      "248",
	},
}
