package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Directory 远端用户目录
type Directory struct {
	BaseURL    string `mapstructure:"baseurl"`
	APIKey     string `mapstructure:"apikey"`
	TimeoutSec int    `mapstructure:"timeoutsec"`
	AllPerPage int    `mapstructure:"allperpage"`
}

type Cache struct {
	Driver    string // memory | redis
	TTLSec    int    `mapstructure:"ttlsec"`
	Retries   int
	KeyPrefix string `mapstructure:"keyprefix"` // 多实例共用 redis 时区分
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Limits 接口保护参数
type Limits struct {
	RPS               float64
	Burst             int
	AdminRPS          float64
	AdminBurst        int
	MaxInFlight       int64
	QueueWaitMs       int
	MaxBodyBytes      int64
	RequestTimeoutSec int
}

type List struct {
	ItemsPerPage int `mapstructure:"itemsperpage"`
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	Directory Directory
	Cache     Cache
	Redis     Redis `mapstructure:"redis"`
	List      List
	Limits    Limits
}

func (d Directory) Timeout() time.Duration { return time.Duration(d.TimeoutSec) * time.Second }
func (c Cache) TTL() time.Duration         { return time.Duration(c.TTLSec) * time.Second }

func (l Limits) QueueWait() time.Duration { return time.Duration(l.QueueWaitMs) * time.Millisecond }
func (l Limits) RequestTimeout() time.Duration {
	return time.Duration(l.RequestTimeoutSec) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-dashboard")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 20)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.compress", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "user-dashboard")
	v.SetDefault("jwt.accesstokenttlmin", 60)

	v.SetDefault("directory.baseurl", "https://reqres.in/api")
	v.SetDefault("directory.apikey", "")
	v.SetDefault("directory.timeoutsec", 10)
	v.SetDefault("directory.allperpage", 12)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttlsec", 300)
	v.SetDefault("cache.retries", 1)
	v.SetDefault("cache.keyprefix", "dash:")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("list.itemsperpage", 6)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.adminrps", 5)
	v.SetDefault("limits.adminburst", 10)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.queuewaitms", 500)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeoutsec", 15) // 大于远端读取预算（10s），兜底数据来得及返回
}

// Read 读取配置；文件不存在时只用默认值 + 环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	return c
}
