package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "EXECUCAO_"

type Application struct {
	Port           int            `koanf:"port"`
	Database       Database       `koanf:"db"`
	Import         Import         `koanf:"import"`
	Reconciliation Reconciliation `koanf:"reconciliation"`
	Google         Google         `koanf:"google"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Import struct {
	// StrictAmounts rejects rows whose amount cannot be parsed instead of reading them as 0.
	StrictAmounts bool `koanf:"strictamounts"`
	// MaxUploadMB bounds multipart uploads.
	MaxUploadMB int64 `koanf:"maxuploadmb"`
}

type Reconciliation struct {
	// MatchPolicy is one of "first", "strict" or "closest".
	MatchPolicy string `koanf:"matchpolicy"`
}

type Google struct {
	// CredentialsFile points to a service account JSON key used to read ledger spreadsheets.
	CredentialsFile string `koanf:"credentialsfile"`
	CredentialsJSON string `koanf:"credentialsjson"`
}

// Load reads defaults, then the optional YAML file at path, then the optional
// .env file, then EXECUCAO_* environment variables. Later sources win.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Port: 8181,
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "execucao",
			Pass:   "",
			Name:   "execucao",
			Schema: "execucao",
		},
		Import: Import{
			StrictAmounts: false,
			MaxUploadMB:   20,
		},
		Reconciliation: Reconciliation{
			MatchPolicy: "first",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
