package config

import (
	"errors"
	"fmt"
	"github.com/asaanloyalty/go-asaanauth/pkg/adb"
	"github.com/asaanloyalty/go-asaanauth/pkg/cache"
	"github.com/asaanloyalty/go-asaanauth/pkg/signin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"io/fs"
	"strings"
	"time"
)

const EnvPrefix = "ASAAN"

type Settings struct {
	Google   signin.GoogleConfig
	Facebook signin.FacebookConfig
	// Browser consent is abandoned after this
	AuthorizeTimeout time.Duration

	ADB adb.Config

	Cache    cache.RedisConfig
	CacheTTL time.Duration
}

var defaults = map[string]interface{}{
	"google.client_id":     "",
	"google.client_secret": "",
	"google.redirect_url":  "http://localhost:8085/callback",
	"google.endpoint":      "",

	"facebook.client_id":     "",
	"facebook.client_secret": "",
	"facebook.redirect_url":  "https://localhost:8085/callback",
	"facebook.graph_url":     signin.DefaultGraphURL,
	"facebook.photo_url":     signin.DefaultPhotoURL,

	"signin.timeout": 5 * time.Minute,

	"adb.host":   "localhost",
	"adb.port":   5037,
	"adb.serial": "",

	"telephony.service": adb.DefaultLineNumberService,
	"telephony.code":    adb.DefaultLineNumberCode,

	"cache.addr":     "localhost:6379",
	"cache.password": "",
	"cache.db":       0,
	"cache.tls":      false,
	"cache.ttl":      24 * time.Hour,
}

/*
Load reads the ini config file at filepath, or GetConfigFilePath() if empty.
Every key can be overridden with an env var, e.g. ASAAN_CACHE_ADDR for cache.addr.
A missing default config file is not an error
*/
func Load(filepath string) (*Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := filepath != ""
	if !explicit {
		filepath = GetConfigFilePath()
	}

	v.SetConfigType("ini")
	v.SetConfigFile(filepath)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", filepath, err)
		}
		log.Debugf("No config file at %s, use defaults", filepath)
	} else {
		log.Debugf("Using config file %s", v.ConfigFileUsed())
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Settings {
	return &Settings{
		Google: signin.GoogleConfig{
			ClientID:     v.GetString("google.client_id"),
			ClientSecret: v.GetString("google.client_secret"),
			RedirectURL:  v.GetString("google.redirect_url"),
			Endpoint:     v.GetString("google.endpoint"),
		},
		Facebook: signin.FacebookConfig{
			ClientID:     v.GetString("facebook.client_id"),
			ClientSecret: v.GetString("facebook.client_secret"),
			RedirectURL:  v.GetString("facebook.redirect_url"),
			GraphURL:     v.GetString("facebook.graph_url"),
			PhotoURL:     v.GetString("facebook.photo_url"),
		},
		AuthorizeTimeout: v.GetDuration("signin.timeout"),
		ADB: adb.Config{
			Host:              v.GetString("adb.host"),
			Port:              v.GetInt("adb.port"),
			Serial:            v.GetString("adb.serial"),
			LineNumberService: v.GetString("telephony.service"),
			LineNumberCode:    v.GetInt("telephony.code"),
		},
		Cache: cache.RedisConfig{
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			UseTLS:   v.GetBool("cache.tls"),
		},
		CacheTTL: v.GetDuration("cache.ttl"),
	}
}
