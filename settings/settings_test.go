package settings

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPopulate(t *testing.T) {
	Convey("Given settings with all fields set", t, func() {
		s := Settings{
			DefaultProject: "perfkit",
			DefaultDataset: "samples",
			DefaultTable:   "results",
			AnalyticsKey:   "UA-1",
			CacheDuration:  30,
		}

		Convey("An empty update changes nothing", func() {
			before := s
			s.Populate(Update{})
			So(s, ShouldResemble, before)
		})

		Convey("Only present fields are copied", func() {
			u, err := ParseUpdate([]byte(`{"default_table": "runs", "cache_duration": 0}`))
			So(err, ShouldBeNil)
			s.Populate(u)
			So(s.DefaultTable, ShouldEqual, "runs")
			So(s.CacheDuration, ShouldEqual, 0)
			So(s.DefaultProject, ShouldEqual, "perfkit")
			So(s.DefaultDataset, ShouldEqual, "samples")
			So(s.AnalyticsKey, ShouldEqual, "UA-1")
		})

		Convey("Empty strings are values", func() {
			u, err := ParseUpdate([]byte(`{"analytics_key": ""}`))
			So(err, ShouldBeNil)
			s.Populate(u)
			So(s.AnalyticsKey, ShouldEqual, "")
			So(s.DefaultTable, ShouldEqual, "results")
		})

		Convey("Serialize returns every field", func() {
			So(s.Serialize(nil), ShouldResemble, map[string]interface{}{
				"default_project": "perfkit",
				"default_dataset": "samples",
				"default_table":   "results",
				"analytics_key":   "UA-1",
				"cache_duration":  int64(30),
			})
		})

		Convey("Serialize keeps unrelated keys", func() {
			out := s.Serialize(map[string]interface{}{"theme": "dark", "default_table": "old"})
			So(out["theme"], ShouldEqual, "dark")
			So(out["default_table"], ShouldEqual, "results")
		})
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		settings  Settings
		wantField string
	}{
		"empty settings are valid": {},
		"complete location": {
			settings: Settings{DefaultProject: "p", DefaultDataset: "d", DefaultTable: "t", CacheDuration: 60},
		},
		"negative cache duration": {
			settings:  Settings{CacheDuration: -1},
			wantField: "cache_duration",
		},
		"table without dataset": {
			settings:  Settings{DefaultProject: "p", DefaultTable: "t"},
			wantField: "default_table",
		},
		"dataset without project": {
			settings:  Settings{DefaultDataset: "d"},
			wantField: "default_dataset",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.settings.Validate()
			if tc.wantField == "" {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, errors.ErrInput)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got Settings
	err := Load(db, Name, &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	s := Settings{DefaultProject: "perfkit", AnalyticsKey: "UA-1", CacheDuration: 30}
	assert.Nil(t, Save(db, Name, &s))

	raw, err := db.Get([]byte("_c:settings"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("settings must be stored under _c:settings")
	}

	assert.Nil(t, Load(db, Name, &got))
	assert.Equal(t, s, got)

	invalid := Settings{CacheDuration: -5}
	err = Save(db, Name, &invalid)
	assert.IsErr(t, errors.ErrInput, err)

	// invalid settings are not written
	assert.Nil(t, Load(db, Name, &got))
	assert.Equal(t, s, got)
}

func TestReadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "settings-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	files := map[string]string{
		"settings.yaml": "default_project: perfkit\ncache_duration: 45\n",
		"settings.json": `{"default_project": "perfkit", "cache_duration": 45}`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			assert.Nil(t, ioutil.WriteFile(path, []byte(content), 0600))

			u, err := ReadFile(path)
			assert.Nil(t, err)

			s := Settings{DefaultTable: "kept"}
			s.Populate(u)
			assert.Equal(t, Settings{DefaultProject: "perfkit", DefaultTable: "kept", CacheDuration: 45}, s)
		})
	}

	_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
	assert.IsErr(t, errors.ErrInput, err)

	broken := filepath.Join(dir, "broken.json")
	assert.Nil(t, ioutil.WriteFile(broken, []byte(`{"cache_duration": "soon"}`), 0600))
	_, err = ReadFile(broken)
	assert.IsErr(t, errors.ErrInput, err)
}
