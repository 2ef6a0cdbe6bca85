package settings

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/perfkit/dashboard/errors"
	"gopkg.in/yaml.v3"
)

// Name is the name the settings singleton is stored under.
const Name = "settings"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Settings holds the global configuration of the dashboard application.
type Settings struct {
	DefaultProject string `json:"default_project" yaml:"default_project"`
	DefaultDataset string `json:"default_dataset" yaml:"default_dataset"`
	DefaultTable   string `json:"default_table" yaml:"default_table"`
	AnalyticsKey   string `json:"analytics_key" yaml:"analytics_key"`
	// CacheDuration is the number of seconds query results are cached for.
	CacheDuration int64 `json:"cache_duration" yaml:"cache_duration"`
}

var _ Configuration = (*Settings)(nil)

// Update is a partial Settings. Nil fields are not present in the update.
type Update struct {
	DefaultProject *string `json:"default_project,omitempty" yaml:"default_project,omitempty"`
	DefaultDataset *string `json:"default_dataset,omitempty" yaml:"default_dataset,omitempty"`
	DefaultTable   *string `json:"default_table,omitempty" yaml:"default_table,omitempty"`
	AnalyticsKey   *string `json:"analytics_key,omitempty" yaml:"analytics_key,omitempty"`
	CacheDuration  *int64  `json:"cache_duration,omitempty" yaml:"cache_duration,omitempty"`
}

// Populate copies all fields present in given update. Other fields are left
// unchanged.
func (s *Settings) Populate(u Update) {
	if u.DefaultProject != nil {
		s.DefaultProject = *u.DefaultProject
	}
	if u.DefaultDataset != nil {
		s.DefaultDataset = *u.DefaultDataset
	}
	if u.DefaultTable != nil {
		s.DefaultTable = *u.DefaultTable
	}
	if u.AnalyticsKey != nil {
		s.AnalyticsKey = *u.AnalyticsKey
	}
	if u.CacheDuration != nil {
		s.CacheDuration = *u.CacheDuration
	}
}

// Serialize writes all settings into given object and returns it. A new
// object is created if dst is nil. Keys of dst that are not settings are
// kept.
func (s *Settings) Serialize(dst map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{}, 5)
	}
	dst["default_project"] = s.DefaultProject
	dst["default_dataset"] = s.DefaultDataset
	dst["default_table"] = s.DefaultTable
	dst["analytics_key"] = s.AnalyticsKey
	dst["cache_duration"] = s.CacheDuration
	return dst
}

// Validate returns an error if the settings cannot be used.
func (s *Settings) Validate() error {
	if s.CacheDuration < 0 {
		return errors.Field("cache_duration", errors.ErrInput, "must not be negative")
	}
	if s.DefaultTable != "" && s.DefaultDataset == "" {
		return errors.Field("default_table", errors.ErrInput, "requires default_dataset")
	}
	if s.DefaultDataset != "" && s.DefaultProject == "" {
		return errors.Field("default_dataset", errors.ErrInput, "requires default_project")
	}
	return nil
}

// Marshal returns the JSON representation of the settings.
func (s *Settings) Marshal() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the settings from their JSON representation.
func (s *Settings) Unmarshal(raw []byte) error {
	if err := json.Unmarshal(raw, s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// ParseUpdate reads a partial settings update from JSON.
func ParseUpdate(raw []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, errors.Wrap(errors.ErrInput, err.Error())
	}
	return u, nil
}

// ReadFile reads a partial settings update from a file. Files with a .json
// extension are decoded as JSON, everything else as YAML.
func ReadFile(path string) (Update, error) {
	var u Update
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return u, errors.Wrap(errors.ErrInput, err.Error())
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseUpdate(raw)
	}
	if err := yaml.Unmarshal(raw, &u); err != nil {
		return u, errors.Wrapf(errors.ErrInput, "%s: %s", path, err)
	}
	return u, nil
}
