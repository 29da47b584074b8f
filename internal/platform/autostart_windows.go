//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if err := checkLoginItem(appName, execPath, true); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	command := `"` + strings.Trim(execPath, `"`) + `"`
	if err := runReg("add", registryRunKey, "/v", appName, "/t", "REG_SZ", "/d", command, "/f"); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := checkLoginItem(appName, "", false); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := runReg("delete", registryRunKey, "/v", appName, "/f"); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if err := checkLoginItem(appName, "", false); err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	// reg query exits non-zero when the value is missing.
	err := runReg("query", registryRunKey, "/v", appName)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &exitErr):
		return false, nil
	default:
		return false, fmt.Errorf("autostart status: %w", err)
	}
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
