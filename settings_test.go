package freshserve

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var yamlExample = []byte(`
server:
  port: 9000
  root: "/var/www"
  indexes:
    - "main.html"
  read_header_timeout: "3s"
log:
  level: "error"
`)

func newTestConfiguration(t *testing.T) *Configuration {
	config := NewConfiguration()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/etc/freshserve/settings.yaml", yamlExample, 0o644); err != nil {
		t.Fatalf("write settings error:%s", err.Error())
	}
	config.SetFs(fs)
	return config
}

func TestSetting(t *testing.T) {
	convey.Convey("test settings load", t, func() {
		config := newTestConfiguration(t)
		convey.So(config.LoadFrom("/etc/freshserve"), convey.ShouldBeNil)
		value, err := config.GetValue("log.level")
		convey.So(err, convey.ShouldBeNil)
		convey.So(value, convey.ShouldEqual, "error")

		opts, err := config.Options()
		convey.So(err, convey.ShouldBeNil)
		convey.So(opts.Server.Port, convey.ShouldEqual, 9000)
		convey.So(opts.Server.Root, convey.ShouldEqual, "/var/www")
		convey.So(opts.Server.Indexes, convey.ShouldResemble, []string{"main.html"})
		convey.So(opts.Server.ReadHeaderTimeout, convey.ShouldEqual, 3*time.Second)
		// not in the file, defaults apply
		convey.So(opts.Server.Listing, convey.ShouldBeTrue)
		convey.So(opts.Server.H2C, convey.ShouldBeFalse)
		convey.So(opts.Log.Level, convey.ShouldEqual, "error")
	})

	convey.Convey("test settings defaults", t, func() {
		config := NewConfiguration()
		err := config.LoadFrom("/not/exist")
		var notFound viper.ConfigFileNotFoundError
		convey.So(errors.As(err, &notFound), convey.ShouldBeTrue)
		opts, err := config.Options()
		convey.So(err, convey.ShouldBeNil)
		convey.So(opts.Server, convey.ShouldResemble, DefaultServerConfig())
		convey.So(opts.Log.Level, convey.ShouldEqual, "info")
	})

	convey.Convey("test settings from env", t, func() {
		t.Setenv("FRESHSERVE_SERVER_PORT", "9100")
		t.Setenv("FRESHSERVE_SERVER_INDEXES", "home.html,default.htm")
		config := newTestConfiguration(t)
		convey.So(config.LoadFrom("/etc/freshserve"), convey.ShouldBeNil)
		opts, err := config.Options()
		convey.So(err, convey.ShouldBeNil)
		convey.So(opts.Server.Port, convey.ShouldEqual, 9100)
		convey.So(opts.Server.Indexes, convey.ShouldResemble, []string{"home.html", "default.htm"})
	})

	convey.Convey("test invalid settings", t, func() {
		config := NewConfiguration()
		config.Set("server.port", 70000)
		_, err := config.Options()
		convey.So(err, convey.ShouldNotBeNil)

		_, err = config.GetValue("server.missing")
		convey.So(err, convey.ShouldNotBeNil)

		config.SetFs(afero.NewMemMapFs())
		convey.So(config.LoadFrom("/etc/freshserve"), convey.ShouldNotBeNil)

		broken := NewConfiguration()
		fs := afero.NewMemMapFs()
		convey.So(afero.WriteFile(fs, "/etc/broken/settings.yaml", []byte("server: [port"), 0o644), convey.ShouldBeNil)
		broken.SetFs(fs)
		err = broken.LoadFrom("/etc/broken")
		convey.So(err, convey.ShouldNotBeNil)
		var notFound viper.ConfigFileNotFoundError
		convey.So(errors.As(err, &notFound), convey.ShouldBeFalse)
	})

	convey.Convey("test load from a directory", t, func() {
		config := newTestConfiguration(t)
		convey.So(config.LoadFrom("/etc/freshserve"), convey.ShouldBeNil)
		convey.So(config.GetInt("server.port"), convey.ShouldEqual, 9000)
	})
}
