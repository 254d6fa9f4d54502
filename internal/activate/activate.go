// Package activate generates the per-project scripts that point JAVA_HOME,
// PATH and CLASSPATH at one discovered JDK.
package activate

import (
	"embed"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"jvirtualenv/internal/config"
	"jvirtualenv/internal/java"
)

//go:embed templates
var templates embed.FS

// Placeholders substituted in the templates, quotes included.
const (
	VirtualEnvSlot = `"__VIRTUAL_ENV__"`
	JavaHomeSlot   = `"__JAVA_HOME__"`
	JavaTagSlot    = `"__JAVA_TAG__"`
	ClassPathSlot  = `"__CLASSPATH__"`
)

// ErrProjectExists is returned by Write when the project path is taken and
// force is not set.
var ErrProjectExists = errors.New("project directory exists already")

// Flavor selects the script dialect.
type Flavor int

const (
	POSIX Flavor = iota
	Windows
)

// HostFlavor returns the dialect for the running platform.
func HostFlavor() Flavor {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return POSIX
}

// Script is one generated file, named relative to the project's bin directory.
type Script struct {
	Name    string
	Content string
}

// ClassPath is the Windows CLASSPATH for a tag: 1.x JDKs still ship
// dt.jar and tools.jar.
func ClassPath(tag string) string {
	if strings.HasPrefix(tag, "1:") {
		return `.;%JAVA_HOME%\lib\dt.jar;%JAVA_HOME%\lib\tools.jar`
	}
	return "."
}

// Substitute replaces each quoted placeholder in tmpl with its quoted value.
func Substitute(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for slot, value := range values {
		pairs = append(pairs, slot, `"`+value+`"`)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func readTemplate(name string) (string, error) {
	data, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render produces the scripts for a project at virtualEnv using the JDK
// at javaHome.
func Render(flavor Flavor, virtualEnv, javaHome, tag string) ([]Script, error) {
	if flavor == Windows {
		activate, err := readTemplate("activate.bat")
		if err != nil {
			return nil, err
		}
		deactivate, err := readTemplate("deactivate.bat")
		if err != nil {
			return nil, err
		}
		values := map[string]string{
			VirtualEnvSlot: virtualEnv,
			JavaHomeSlot:   javaHome,
			JavaTagSlot:    tag,
			ClassPathSlot:  ClassPath(tag),
		}
		return []Script{
			{Name: "activate.bat", Content: Substitute(activate, values)},
			{Name: "deactivate.bat", Content: deactivate},
		}, nil
	}

	activate, err := readTemplate("activate.sh")
	if err != nil {
		return nil, err
	}
	values := map[string]string{
		VirtualEnvSlot: virtualEnv,
		JavaHomeSlot:   javaHome,
		JavaTagSlot:    tag,
	}
	return []Script{{Name: "activate", Content: Substitute(activate, values)}}, nil
}

// Write creates <project>/bin and the activation scripts for inst inside
// it. It returns the paths written. An existing project path is only
// reused when force is set.
func Write(flavor Flavor, project string, inst java.Installation, force bool) ([]string, error) {
	project, err := filepath.Abs(project)
	if err != nil {
		return nil, err
	}

	if _, err := os.Lstat(project); err == nil && !force {
		return nil, ErrProjectExists
	}

	if err := config.EnsureDir(project); err != nil {
		return nil, err
	}
	binDir := filepath.Join(project, "bin")
	if err := config.EnsureDir(binDir); err != nil {
		return nil, err
	}

	scripts, err := Render(flavor, project, inst.Home, inst.Tag)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(scripts))
	for _, s := range scripts {
		path := filepath.Join(binDir, s.Name)
		if err := os.WriteFile(path, []byte(s.Content), 0644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
