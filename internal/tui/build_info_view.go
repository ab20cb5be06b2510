// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/MKhiriev/go-protected-text/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	rows := [][2]string{
		{"Программа", "go-protected-text"},
		{"Версия", info.BuildVersion()},
		{"Дата", info.BuildDate()},
		{"Коммит", info.BuildCommit()},
		{"Go", runtime.Version()},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s: %s", row[0], row[1]))
	}

	return renderPage("О ПРОГРАММЕ", strings.Join(lines, "\n"), "esc / f1: назад")
}
