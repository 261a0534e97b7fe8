/*
Copyright 2025 The CDM Spark Manager authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sparkmanager

import (
	"fmt"
	"runtime"
)

type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

var (
	version   = "0.1.0"                // value from VERSION file
	buildDate = "1970-01-01T00:00:00Z" // output from `date -u +'%Y-%m-%dT%H:%M:%SZ'`
	gitCommit = ""                     // output from `git rev-parse HEAD`
)

func getVersion() VersionInfo {
	versionStr := version
	if len(gitCommit) >= 7 {
		versionStr += "+" + gitCommit[0:7]
	}
	return VersionInfo{
		Version:   versionStr,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// PrintVersion prints version info to stdout.
func PrintVersion(short bool) {
	v := getVersion()
	fmt.Printf("CDM Spark Manager Version: %s\n", v.Version)
	if short {
		return
	}
	fmt.Printf("Build Date: %s\n", v.BuildDate)
	fmt.Printf("Git Commit ID: %s\n", v.GitCommit)
	fmt.Printf("Go Version: %s\n", v.GoVersion)
	fmt.Printf("Platform: %s\n", v.Platform)
}
