package shared

type ServerConfig struct {
	Sqlite  SqliteConfig  `mapstructure:"sqlite" validate:"required"`
	Sheield SheieldConfig `mapstructure:"sheield" validate:"required"`
	Smtp    SmtpConfig    `mapstructure:"smtp" validate:"required"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Geo     GeoConfig     `mapstructure:"geo"`
	Google  GoogleConfig  `mapstructure:"google"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type SheieldConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem" validate:"required"`
	Cron          CronConfig     `mapstructure:"cron" validate:"required"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type SmtpConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	From     string `mapstructure:"from" validate:"required,email"`
}

// ChatConfig drives the optional chat-messaging side channel. A zero value
// leaves the channel disabled and every send is skipped without error.
type ChatConfig struct {
	Enabled             interface{} `mapstructure:"enabled"`
	AccountSid          string      `mapstructure:"accountSid"`
	AuthToken           string      `mapstructure:"authToken"`
	MessagingServiceSid string      `mapstructure:"messagingServiceSid"`
	DefaultCountryCode  string      `mapstructure:"defaultCountryCode"`
	SendDelayMinutes    int         `mapstructure:"sendDelayMinutes"`
}

// IsEnabled interprets the loosely-typed enabled flag from the config file.
func (c ChatConfig) IsEnabled() bool {
	switch value := c.Enabled.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	default:
		return false
	}
}

type GeoConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket         string      `mapstructure:"bucket" validate:"required_with=EnableBackup"`
	Prefix         string      `mapstructure:"prefix"`
	BackupSchedule string      `mapstructure:"backupSchedule" validate:"required_with=EnableBackup"`
	EnableBackup   interface{} `mapstructure:"enableBackup"`
}

// IsBackupEnabled interprets the loosely-typed enableBackup flag.
func (c StorageConfig) IsBackupEnabled() bool {
	switch value := c.EnableBackup.(type) {
	case bool:
		return value
	case string:
		return value == "true"
	default:
		return false
	}
}
