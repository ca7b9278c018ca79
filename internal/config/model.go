package config

// User represents an account that can use the JSON API.  Passwords are
// stored as bcrypt hashes.  The Admin flag allows reading the event log.
type User struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"password_hash" yaml:"password_hash"`
	Admin        bool   `json:"admin" yaml:"admin"`
}

// Pins describes how the board is wired.  GPIO numbers use BCM numbering.
type Pins struct {
	ButtonA   int `json:"button_a" yaml:"button_a"` // primary: return from feedback
	ButtonB   int `json:"button_b" yaml:"button_b"` // secondary: submit answer
	BuzzerA   int `json:"buzzer_a" yaml:"buzzer_a"` // victory tone
	BuzzerB   int `json:"buzzer_b" yaml:"buzzer_b"` // defeat tone
	StatusLED int `json:"status_led" yaml:"status_led"`

	// The joystick is read through an ADS1115 on the I2C bus.  An empty bus
	// name picks the first bus found.
	I2CBus          string `json:"i2c_bus" yaml:"i2c_bus"`
	ADCAddress      uint16 `json:"adc_address" yaml:"adc_address"`
	JoystickChannel int    `json:"joystick_channel" yaml:"joystick_channel"`
}

// Tones sets the buzzer frequencies and how long each verdict sounds.
type Tones struct {
	VictoryHz  uint32 `json:"victory_hz" yaml:"victory_hz"`
	DefeatHz   uint32 `json:"defeat_hz" yaml:"defeat_hz"`
	DurationMS int    `json:"duration_ms" yaml:"duration_ms"`
}

// Joystick sets the thresholds of the selection axis.  Samples are 12 bit.
type Joystick struct {
	UpThreshold   uint16 `json:"up_threshold" yaml:"up_threshold"`
	DownThreshold uint16 `json:"down_threshold" yaml:"down_threshold"`
	Center        uint16 `json:"center" yaml:"center"`
	IntervalMS    int    `json:"interval_ms" yaml:"interval_ms"`
}

// Redis configures the optional letter feed and result publisher.
type Redis struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	Addr          string `json:"addr" yaml:"addr"`
	Password      string `json:"password,omitempty" yaml:"password,omitempty"`
	DB            int    `json:"db" yaml:"db"`
	LetterChannel string `json:"letter_channel" yaml:"letter_channel"`
	ResultChannel string `json:"result_channel" yaml:"result_channel"`
}

// Config is the top-level structure serialised to the config file.
type Config struct {
	HTTPPort  int      `json:"http_port" yaml:"http_port"`
	CertFile  string   `json:"cert_file,omitempty" yaml:"cert_file,omitempty"` // serve HTTPS when both are set
	KeyFile   string   `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	LogFile   string   `json:"log_file" yaml:"log_file"`
	TickMS    int      `json:"tick_ms" yaml:"tick_ms"`       // main loop period
	TestInput bool     `json:"test_input" yaml:"test_input"` // allow button presses over HTTP
	Users     []User   `json:"users" yaml:"users"`
	Pins      Pins     `json:"pins" yaml:"pins"`
	Tones     Tones    `json:"tones" yaml:"tones"`
	Joystick  Joystick `json:"joystick" yaml:"joystick"`
	Redis     Redis    `json:"redis" yaml:"redis"`
}
