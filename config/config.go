package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"internal2vol/foam"
	"internal2vol/model"
)

// DefaultFile case 下默认的配置文件位置
const DefaultFile = "system/internal2vol.ini"

// Config 可由 ini 文件提供的默认参数，命令行参数优先
type Config struct {
	Fields       []string
	VectorFields []string
	Suffix       string

	LogLevel  string
	LogFormat string

	// 进度推送地址，为空表示不启动
	FeedAddr string
}

func Default() Config {
	return Config{
		Suffix:    model.DefaultSuffix,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath 返回 case 下默认配置文件的路径以及它是否存在
func DefaultPath(caseDir string) (string, bool) {
	path := filepath.Join(caseDir, DefaultFile)
	info, err := os.Stat(path)
	return path, err == nil && info.Mode().IsRegular()
}

// Load 读取配置文件，未出现的项取默认值
func Load(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return Default(), fmt.Errorf("配置文件读取错误，请检查文件路径: %w", err)
	}
	cfg, err := loadCfg(file)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadCfg(file *ini.File) (Config, error) {
	def := Default()
	cfg := Config{
		Suffix:    file.Section("promote").Key("suffix").MustString(def.Suffix),
		LogLevel:  file.Section("log").Key("level").MustString(def.LogLevel),
		LogFormat: file.Section("log").Key("format").MustString(def.LogFormat),
		FeedAddr:  file.Section("feed").Key("addr").MustString(def.FeedAddr),
	}

	var err error
	if cfg.Fields, err = wordList(file.Section("promote").Key("fields")); err != nil {
		return cfg, err
	}
	if cfg.VectorFields, err = wordList(file.Section("promote").Key("vectorFields")); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// wordList 列表写法与命令行相同：(a b) 或 2(a b)
func wordList(key *ini.Key) ([]string, error) {
	v := strings.TrimSpace(key.String())
	if v == "" {
		return nil, nil
	}
	words, err := foam.ParseWordList(v)
	if err != nil {
		return nil, fmt.Errorf("[promote] %s: %w", key.Name(), err)
	}
	return words, nil
}
