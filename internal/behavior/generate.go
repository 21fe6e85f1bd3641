package behavior

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"xlcheck/internal/schema"
)

// generateProgram synthesizes a minimal one-shot program that loads the
// configured implementation, runs the case's operation, and prints the
// numeric result alone on stdout. sourceFiles is the language's configured
// file list; the file named after the type under test is preferred.
func generateProgram(c schema.Case, lang string, sourceFiles []string) (string, error) {
	if c.Operation != "distance_to" {
		return "", fmt.Errorf("no %s generator for operation %q", lang, c.Operation)
	}
	src, err := pickSource(sourceFiles, "point")
	if err != nil {
		return "", err
	}

	switch lang {
	case "python":
		return pythonProgram(c, src), nil
	case "rust":
		return rustProgram(c, src), nil
	case "cpp":
		return cppProgram(c, src), nil
	}
	return "", fmt.Errorf("unsupported language: %s", lang)
}

func pythonProgram(c schema.Case, src string) string {
	dir, _ := filepath.Abs(filepath.Dir(src))
	module := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return fmt.Sprintf(`import sys
sys.path.insert(0, %q)
from %s import Point

p1 = Point(%s, %s, %s)
p2 = Point(%s, %s, %s)
print(p1.distance_to(p2))
`, dir, module,
		lit(c.P1.X), lit(c.P1.Y), lit(c.P1.Z),
		lit(c.P2.X), lit(c.P2.Y), lit(c.P2.Z))
}

func rustProgram(c schema.Case, src string) string {
	abs, _ := filepath.Abs(src)
	return fmt.Sprintf(`include!(%q);

fn main() {
    let p1 = Point::new(%s, %s, %s);
    let p2 = Point::new(%s, %s, %s);
    println!("{}", p1.distance_to(&p2));
}
`, abs,
		lit(c.P1.X), lit(c.P1.Y), lit(c.P1.Z),
		lit(c.P2.X), lit(c.P2.Y), lit(c.P2.Z))
}

func cppProgram(c schema.Case, src string) string {
	abs, _ := filepath.Abs(src)
	return fmt.Sprintf(`#include %q
#include <iomanip>
#include <iostream>

int main() {
    Point p1(%s, %s, %s);
    Point p2(%s, %s, %s);
    std::cout << std::setprecision(17) << p1.distance_to(p2) << std::endl;
    return 0;
}
`, abs,
		lit(c.P1.X), lit(c.P1.Y), lit(c.P1.Z),
		lit(c.P2.X), lit(c.P2.Y), lit(c.P2.Z))
}

// lit renders a float literal every target language accepts.
func lit(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func pickSource(files []string, stem string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no source files configured")
	}
	for _, f := range files {
		base := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if strings.EqualFold(base, stem) {
			return f, nil
		}
	}
	return files[0], nil
}
