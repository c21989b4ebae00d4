package version

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// appName prefixes the string printed for --version.
const appName = "blobdb"

// validBuildCharacters may appear in appBuild. Anything else drops it.
const validBuildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

const (
	appMajor uint = 0
	appMinor uint = 3
	appPatch uint = 0
)

// appBuild is set at build time with
// '-ldflags "-X github.com/kaspanet/blobdb/version.appBuild=foo"'.
var appBuild string

var (
	version     string
	versionOnce sync.Once
)

// Version returns major.minor.patch, followed by -appBuild when a valid
// build string was linked in.
func Version() string {
	versionOnce.Do(func() {
		version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
		if build := checkAppBuild(appBuild); build != "" {
			version += "-" + build
		}
	})
	return version
}

// Full returns the line printed for --version: the application name, its
// version and the Go version it was built with.
func Full() string {
	return fmt.Sprintf("%s version %s (%s)", appName, Version(), runtime.Version())
}

// checkAppBuild returns build, or "" if it has characters outside
// validBuildCharacters.
func checkAppBuild(build string) string {
	for _, r := range build {
		if !strings.ContainsRune(validBuildCharacters, r) {
			return ""
		}
	}
	return build
}
