//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if err := checkLoginItem(appName, execPath, true); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	plist, err := launchAgentPath(appName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := writeLoginFile(plist, buildLaunchAgentPlist(launchAgentLabel(appName), execPath)); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := checkLoginItem(appName, "", false); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	plist, err := launchAgentPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := removeLoginFile(plist); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	plist, err := launchAgentPath(appName)
	if err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return fileExists(plist)
}

func launchAgentPath(appName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(appName)+".plist"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	return "app.deskwell." + slug(appName)
}

var plistEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// buildLaunchAgentPlist starts the app at login as an interactive process.
func buildLaunchAgentPlist(label, execPath string) string {
	var plist strings.Builder
	plist.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	plist.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	plist.WriteString(`<plist version="1.0">` + "\n<dict>\n")
	fmt.Fprintf(&plist, "\t<key>Label</key>\n\t<string>%s</string>\n", plistEscaper.Replace(label))
	fmt.Fprintf(&plist, "\t<key>ProgramArguments</key>\n\t<array>\n\t\t<string>%s</string>\n\t</array>\n", plistEscaper.Replace(execPath))
	plist.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n")
	plist.WriteString("\t<key>ProcessType</key>\n\t<string>Interactive</string>\n")
	plist.WriteString("</dict>\n</plist>\n")
	return plist.String()
}
