package shared

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func fullServerConfig() ServerConfig {
	return ServerConfig{
		Sqlite: SqliteConfig{PassPhrase: "passphrase"},
		Sheield: SheieldConfig{
			PrivateKeyPem: "dev/config/dev_key.pem",
			Cron:          CronConfig{TimeZone: "Asia/Kolkata"},
			Listener:      ListenerConfig{Port: 3000},
		},
		Smtp: SmtpConfig{
			Host:     "localhost",
			Port:     1025,
			Username: "dev@sheield.local",
			Password: "password",
			From:     "dev@sheield.local",
		},
		Chat: ChatConfig{
			Enabled:            true,
			AccountSid:         "sid",
			AuthToken:          "token",
			DefaultCountryCode: "+91",
		},
		Geo: GeoConfig{Endpoint: "http://ip-api.com/json", TimeoutSeconds: 3},
		Google: GoogleConfig{
			Storage: StorageConfig{
				Bucket:         "sheield",
				BackupSchedule: "*/30 * * * *",
				EnableBackup:   "true",
			},
		},
	}
}

func TestServerConfigValidation(t *testing.T) {
	config := fullServerConfig()
	assert.Nil(t, validator.New().Struct(config))

	// The loosely-typed flags may hold strings straight from yaml
	config.Chat.Enabled = "true"
	config.Google.Storage.EnableBackup = false
	assert.Nil(t, validator.New().Struct(config))
}

func TestServerConfigValidationRejectsMissingRequiredFields(t *testing.T) {
	config := fullServerConfig()
	config.Sqlite.PassPhrase = ""

	assert.NotNil(t, validator.New().Struct(config))
}

func TestIsEnabled(t *testing.T) {
	assert.True(t, ChatConfig{Enabled: true}.IsEnabled())
	assert.True(t, ChatConfig{Enabled: "true"}.IsEnabled())
	assert.False(t, ChatConfig{Enabled: false}.IsEnabled())
	assert.False(t, ChatConfig{Enabled: "yes"}.IsEnabled())
	assert.False(t, ChatConfig{}.IsEnabled())
}

func TestIsBackupEnabled(t *testing.T) {
	assert.True(t, StorageConfig{EnableBackup: true}.IsBackupEnabled())
	assert.True(t, StorageConfig{EnableBackup: "true"}.IsBackupEnabled())
	assert.False(t, StorageConfig{EnableBackup: "false"}.IsBackupEnabled())
	assert.False(t, StorageConfig{}.IsBackupEnabled())
}
