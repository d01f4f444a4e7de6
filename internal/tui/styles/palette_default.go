package styles

// DefaultTheme is the baseline dark palette for the rota TUI.
var DefaultTheme = Theme{
	Name:        "default",
	BorderStyle: "rounded",
	Base: BaseColors{
		Background: "234",
		Foreground: "252",
		Muted:      "245",
		Accent:     "75",
		Border:     "240",
	},
	Grid: GridColors{
		HourLabel:  "252",
		MinorLabel: "245",
		SlotLine:   "238",
		Now:        "203",
		ZoomHandle: "75",
	},
	Task: TaskColors{
		Done:       "41",
		Pending:    "252",
		Attachment: "109",
	},
	Chrome: ChromeColors{
		Header:       "111",
		Footer:       "110",
		Breadcrumb:   "109",
		SelectedItem: "75",
	},
	Borders: BorderColors{
		ActivePane:   "75",
		InactivePane: "240",
		Divider:      "238",
	},
}
