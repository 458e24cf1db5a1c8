package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Data       DataConfig       `mapstructure:"data"       validate:"required"`
	Log        LogConfig        `mapstructure:"log"        validate:"required"`
	Homepage   HomepageConfig   `mapstructure:"homepage"   validate:"required"`
	Navigation NavigationConfig `mapstructure:"navigation"`
}

// DataConfig contains settings for the persisted entity containers.
type DataConfig struct {
	// Dir is the directory holding the three container files
	// (creators.json, content_sets.json, cards.json).
	Dir string `mapstructure:"dir" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// HomepageConfig contains the discovery curator's row settings.
type HomepageConfig struct {
	// Rows names the curated rows in display order; sets join a row by
	// carrying its name as a tag.
	Rows []string `mapstructure:"rows" validate:"required,min=1,dive,required"`

	// RowSize caps how many sets a row may hold.
	RowSize int `mapstructure:"row_size" validate:"required,gt=0"`

	// MinRowMembers is the threshold below which a row is backfilled from
	// the remaining published sets.
	MinRowMembers int `mapstructure:"min_row_members" validate:"gte=0"`

	// CreatorRailSize caps the featured-creators rail.
	CreatorRailSize int `mapstructure:"creator_rail_size" validate:"gte=0"`
}

// NavigationConfig contains navigation sequencer settings.
type NavigationConfig struct {
	// Cyclic makes prev/next wrap around at sequence ends. Off by
	// default: ends report no predecessor/successor.
	Cyclic bool `mapstructure:"cyclic"`
}
