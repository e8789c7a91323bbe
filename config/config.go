package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	RedisAddr  string `mapstructure:"REDIS_ADDR"`
	HTTPPort   string `mapstructure:"HTTP_PORT"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	StorageDir string `mapstructure:"STORAGE_DIR"`

	SnackAPIURL   string `mapstructure:"SNACK_API_URL"`
	SnackUsername string `mapstructure:"SNACK_USERNAME"`
	SnackPassword string `mapstructure:"SNACK_PASSWORD"`

	UpbolisAPIURL   string `mapstructure:"UPBOLIS_API_URL"`
	UpbolisUsername string `mapstructure:"UPBOLIS_USERNAME"`
	UpbolisPassword string `mapstructure:"UPBOLIS_PASSWORD"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// ВАЖНО: Явно биндим переменные, чтобы Viper их видел без файла
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("HTTP_PORT")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("STORAGE_DIR")
	viper.BindEnv("SNACK_API_URL")
	viper.BindEnv("SNACK_USERNAME")
	viper.BindEnv("SNACK_PASSWORD")
	viper.BindEnv("UPBOLIS_API_URL")
	viper.BindEnv("UPBOLIS_USERNAME")
	viper.BindEnv("UPBOLIS_PASSWORD")

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("STORAGE_DIR", "./uploads")

	// Пытаемся прочитать файл, но не умираем, если его нет
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// Файла нет? Ну и ладно, работаем на ENV
	}

	err = viper.Unmarshal(&config)
	return
}
