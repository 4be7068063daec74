package agenda

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// Check is the outcome of one environment diagnostic.
type Check struct {
	Name   string `json:"nombre"`
	OK     bool   `json:"ok"`
	Detail string `json:"detalle"`
}

// DoctorReport summarizes the health of the installation for operators.
type DoctorReport struct {
	Healthy   bool    `json:"saludable"`
	GoVersion string  `json:"go_version"`
	Checks    []Check `json:"verificaciones"`
}

// Doctor runs the environment diagnostics: data file presence and validity,
// backup directory writability, snapshot count and history integrity. It
// creates the backup directory when missing, mirroring first-run setup.
func Doctor(cfg Config) DoctorReport {
	report := DoctorReport{
		Healthy:   true,
		GoVersion: runtime.Version(),
	}

	add := func(c Check) {
		if !c.OK {
			report.Healthy = false
		}
		report.Checks = append(report.Checks, c)
	}

	add(checkDataFile(cfg.DataFile))
	add(checkBackupDir(cfg.BackupDir))
	add(checkSnapshots(cfg.BackupDir))
	add(checkHistory(cfg.HistoryFile))

	return report
}

func checkDataFile(path string) Check {
	check := Check{Name: "archivo de agenda"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			check.Detail = fmt.Sprintf("%s no existe", path)
		} else {
			check.Detail = fmt.Sprintf("%s no se puede leer: %v", path, err)
		}
		return check
	}

	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		check.Detail = fmt.Sprintf("%s contiene JSON invalido: %v", path, err)
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("%d semanas, %d contenidos, %d bytes",
		len(doc.Weeks), doc.TotalContents(), len(data))
	return check
}

func checkBackupDir(dir string) Check {
	check := Check{Name: "directorio de backups"}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			check.Detail = fmt.Sprintf("%s no existe y no se pudo crear: %v", dir, err)
			return check
		}
	} else if err != nil {
		check.Detail = fmt.Sprintf("%s: %v", dir, err)
		return check
	} else if !info.IsDir() {
		check.Detail = fmt.Sprintf("%s no es un directorio", dir)
		return check
	}

	// Writability is proven by writing, not by inspecting permission bits.
	probe, err := os.CreateTemp(dir, "doctor-*")
	if err != nil {
		check.Detail = fmt.Sprintf("%s no es escribible: %v", dir, err)
		return check
	}
	probe.Close()
	os.Remove(probe.Name())

	check.OK = true
	check.Detail = dir + " escribible"
	return check
}

func checkSnapshots(dir string) Check {
	check := Check{Name: "backups retenidos", OK: true}

	entries, err := os.ReadDir(dir)
	if err != nil {
		check.Detail = "0 snapshots"
		return check
	}
	count := 0
	for _, entry := range entries {
		if ok, _ := doublestar.Match("agenda_backup_*.json", entry.Name()); ok {
			count++
		}
	}
	check.Detail = fmt.Sprintf("%d snapshots", count)
	return check
}

func checkHistory(path string) Check {
	check := Check{Name: "historial de cambios"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No history yet is a normal fresh install.
			check.OK = true
			check.Detail = "sin historial todavia"
			return check
		}
		check.Detail = fmt.Sprintf("%s no se puede leer: %v", path, err)
		return check
	}

	var records []core.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		check.Detail = fmt.Sprintf("%s contiene JSON invalido: %v", path, err)
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("%d registros en %s", len(records), filepath.Base(path))
	return check
}
