//go:build ignore

// Cross-compiles gptokeyb for handheld targets: go run build.go -platforms linux-arm64
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

type target struct {
	goos, goarch, goarm string
}

func (t target) String() string {
	if t.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", t.goos, t.goarch, t.goarm)
	}
	return fmt.Sprintf("%s-%s", t.goos, t.goarch)
}

var targets = []target{
	{goos: "linux", goarch: "arm", goarm: "7"}, // 32-bit handheld firmwares
	{goos: "linux", goarch: "arm64"},
	{goos: "linux", goarch: "amd64"},
}

type result struct {
	target target
	output string
	err    error
}

var (
	platforms = flag.String("platforms", "all", "comma-separated target list, available: "+targetList())
	project   = flag.String("project", "./cmd/gptokeyb/", "project directory")
	basename  = flag.String("base", "gptokeyb", "base filename for output binaries")
	withSDL   = flag.Bool("sdl", false, "include SDL2 controller source (requires cgo and SDL2 headers for the target)")
	race      = flag.Bool("race", false, "include race detector")
)

func targetList() string {
	var names []string
	for _, t := range targets {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}

func selectTargets(selection string) ([]target, error) {
	if selection == "all" {
		return targets, nil
	}
	var selected []target
	for _, name := range strings.Split(selection, ",") {
		i := -1
		for n, t := range targets {
			if t.String() == name {
				i = n
				break
			}
		}
		if i < 0 {
			return nil, fmt.Errorf("target not found: %s", name)
		}
		selected = append(selected, targets[i])
	}
	return selected, nil
}

func build(t target) result {
	args := []string{"build", "-o", fmt.Sprintf("./builds/%s-%s", *basename, t)}
	if *withSDL {
		args = append(args, "-tags", "sdl")
	}
	if *race {
		args = append(args, "-race")
	}
	args = append(args, *project)

	cgo := "CGO_ENABLED=0"
	if *withSDL || *race {
		cgo = "CGO_ENABLED=1"
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+t.goos, "GOARCH="+t.goarch, cgo)
	if t.goarm != "" {
		cmd.Env = append(cmd.Env, "GOARM="+t.goarm)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return result{target: t, output: out.String(), err: err}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	selected, err := selectTargets(*platforms)
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
	var names []string
	for _, t := range selected {
		names = append(names, t.String())
	}
	log.Printf("building %s for: %s", *project, strings.Join(names, ", "))

	var mu sync.Mutex
	var results []result
	wg := sync.WaitGroup{}
	for _, t := range selected {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			r := build(t)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].target.String() < results[j].target.String() })

	failed := false
	for _, r := range results {
		if r.err == nil {
			log.Printf("%-20s ok", r.target)
			continue
		}
		failed = true
		log.Printf("%-20s failed: %s", r.target, r.err)
		if r.output != "" {
			fmt.Printf("======== %s ========\n%s", r.target, r.output)
		}
	}
	if failed {
		os.Exit(1)
	}
}
