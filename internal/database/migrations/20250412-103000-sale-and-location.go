package migrations

func init() {
	Register(Migration{
		Timestamp:   "20250412-103000",
		Description: "Sale, location and component columns on games",
		Up: []string{
			`ALTER TABLE games ADD COLUMN is_coming_soon INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE games ADD COLUMN is_for_sale INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE games ADD COLUMN sale_price REAL`,
			`ALTER TABLE games ADD COLUMN sale_condition TEXT`,
			`ALTER TABLE games ADD COLUMN location_room TEXT`,
			`ALTER TABLE games ADD COLUMN location_shelf TEXT`,
			`ALTER TABLE games ADD COLUMN location_misc TEXT`,
			`ALTER TABLE games ADD COLUMN sleeved INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE games ADD COLUMN upgraded_components INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE games ADD COLUMN crowdfunded INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE games ADD COLUMN inserts INTEGER NOT NULL DEFAULT 0`,
		},
	})
}
