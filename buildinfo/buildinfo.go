// Package buildinfo 保存构建时注入的版本信息。
//
//	go build -ldflags "-X github.com/ByLCY/newsletter/buildinfo.Version=v1.0.0 \
//	    -X github.com/ByLCY/newsletter/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/ByLCY/newsletter/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String 返回多行版本信息。
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template 返回 cobra 的版本模板。
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
