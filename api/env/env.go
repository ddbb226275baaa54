package env

import (
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var cache = make(map[string]string)
var locker sync.RWMutex

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("error reading config file %s: %s", file, err.Error())
		}
	}
}

// Get resolves a key from the environment or config file. When "<key>.file"
// is set, the value is read from that file instead (docker secrets).
func Get(key string) string {
	locker.RLock()
	val, exists := cache[key]
	locker.RUnlock()
	if exists {
		return val
	}

	filename := viper.GetString(key + ".file")
	if filename == "" {
		return viper.GetString(key)
	}
	val, err := readSecret(filename)
	if err != nil {
		log.Printf("error reading secret: %s", err.Error())
	}
	//update cache with the full value, so we don't constantly read it
	Set(key, val)
	return val
}

func Set(key string, val string) {
	locker.Lock()
	defer locker.Unlock()
	cache[key] = val
}

// Unset drops an override made with Set.
func Unset(key string) {
	locker.Lock()
	defer locker.Unlock()
	delete(cache, key)
}

func GetOr(key string, def string) string {
	res := Get(key)
	if res == "" {
		return def
	}
	return res
}

func GetBool(key string) bool {
	return GetBoolOr(key, false)
}

func GetBoolOr(key string, def bool) bool {
	res := Get(key)
	if res == "" {
		return def
	}
	return cast.ToBool(res)
}

func GetInt(key string) int {
	return cast.ToInt(Get(key))
}

func GetIntOr(key string, def int) int {
	res := Get(key)
	if res == "" {
		return def
	}
	val, err := cast.ToIntE(res)
	if err != nil {
		log.Printf("invalid number for %s: %s", key, res)
		return def
	}
	return val
}

// GetDurationOr accepts Go duration strings ("90s", "2m"), plain numbers are
// read as seconds.
func GetDurationOr(key string, def time.Duration) time.Duration {
	res := Get(key)
	if res == "" {
		return def
	}
	if seconds, err := cast.ToInt64E(res); err == nil {
		return time.Duration(seconds) * time.Second
	}
	val, err := cast.ToDurationE(res)
	if err != nil || val <= 0 {
		log.Printf("invalid duration for %s: %s", key, res)
		return def
	}
	return val
}

// GetStringArray splits the value on separator and drops empty entries.
func GetStringArray(key, separator string) []string {
	val := Get(key)
	if separator == "" {
		separator = ","
	}

	result := make([]string, 0)
	for _, v := range strings.Split(val, separator) {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}

func readSecret(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
