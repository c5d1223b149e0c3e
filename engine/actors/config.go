package actors

import (
	"os"

	"github.com/spf13/viper"

	"didsystem/engine/library"
)

// ProgramID owns every DID record account. It is sha256("did_system").
const ProgramID library.Account = "442f3cd4523e08ae924d51cfaadd89eb1c5b8c8cfb449137221690c5609dcdb1"

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	if !config.IsSet("rootDir") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			library.LogCLI(err.Error(), 0)
		}
		config.SetDefault("rootDir", homeDir+"/didsystem/")
	}
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err := config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("logLevel", 4)
	// rent is charged like an exempt account: (128 + data length) * lamportsPerByteYear * exemptionThreshold
	config.SetDefault("lamportsPerByteYear", uint64(3480))
	config.SetDefault("exemptionThreshold", uint64(2))
	config.SetDefault("airdropLamports", uint64(1000000000))
	config.SetDefault("publish", false)
	config.SetDefault("relays", []string{"wss://nostr.688.org"})
	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	if err := library.Touch(config.GetString("rootDir") + "config.yaml"); err != nil {
		library.LogCLI(err.Error(), 1)
	}
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
