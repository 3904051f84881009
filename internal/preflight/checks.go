package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"booklet/internal/assemble"
	"booklet/internal/config"
	"booklet/internal/pdfengine"
	"booklet/internal/sheet"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckSpreadsheet verifies that the spreadsheet can be read and its header
// has room for at least one performer column.
func CheckSpreadsheet(path string, delimiter rune) Result {
	const name = "Spreadsheet"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	header, err := sheet.ReadHeader(path, delimiter)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if len(header) <= sheet.FixedColumns {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: header has %d columns, no performer columns)", path, len(header))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d columns)", path, len(header))}
}

// CheckPerformer verifies that performer has a column in the spreadsheet header.
func CheckPerformer(path string, delimiter rune, performer string) Result {
	name := fmt.Sprintf("Performer %q", performer)
	header, err := sheet.ReadHeader(path, delimiter)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := sheet.CheckPerformer(path, header, performer); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "column found"}
}

// CheckAnnotations verifies that the annotation style parses and only uses
// fonts every PDF reader provides.
func CheckAnnotations(a config.Annotations) Result {
	const name = "Annotation fonts"
	style, err := assemble.StyleFromConfig(a)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	fonts := []string{style.Fonts.Regular, style.Fonts.Italic, style.Fonts.Sans}
	var unknown []string
	for _, f := range fonts {
		if !pdfengine.IsCoreFont(f) {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("not standard PDF fonts: %s", strings.Join(unknown, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(fonts, ", ")}
}
