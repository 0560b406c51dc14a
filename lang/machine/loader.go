package machine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/byteguy8/zeus/lang/natmod"
	"github.com/byteguy8/zeus/lang/objects"
	"github.com/byteguy8/zeus/lang/parser"
	"github.com/byteguy8/zeus/lang/resolver"
	"golang.org/x/exp/slices"
)

// resolveImport returns the value NGET should push for the idx'th import of
// owner, constructing and caching the native module singleton or the
// compiled file module on first reference (spec.md §4.5 steps 1-5).
func (vm *VM) resolveImport(owner *compiler.Program, idx int) objects.Value {
	path := owner.ModulePaths[idx]

	if owner.ModuleIsNative[idx] {
		if mod, ok := vm.nativeModules[path]; ok {
			return objects.FromObject(mod)
		}
		mod, ok := natmod.New(path, vm.natHost())
		if !ok {
			vm.fault("native module not found: %s", path)
		}
		vm.nativeModules[path] = mod
		return objects.FromObject(mod)
	}

	abs, err := vm.locateModuleFile(path)
	if err != nil {
		vm.fault("%s", err.Error())
	}
	if mod, ok := vm.moduleByPath[abs]; ok {
		return objects.FromObject(mod)
	}

	prog, err := vm.compileModuleFile(abs)
	if err != nil {
		vm.fault("importing %q: %s", path, err.Error())
	}
	mod := vm.newModule(prog, abs)
	vm.moduleByPath[abs] = mod

	dir := filepath.Dir(abs)
	if !slices.Contains(vm.searchPaths, dir) {
		vm.searchPaths = append(vm.searchPaths, dir)
	}

	return objects.FromObject(mod)
}

// locateModuleFile implements spec.md §4.5 step 2-3: join path's segments
// with "/", append ".ze", and try each search path in order.
func (vm *VM) locateModuleFile(path string) (string, error) {
	rel := strings.ReplaceAll(path, ".", string(filepath.Separator)) + ".ze"
	for _, dir := range vm.searchPaths {
		candidate := filepath.Join(dir, rel)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return "", errors.New("module path is a directory: " + candidate)
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	return "", errors.New("module not found: " + path)
}

func (vm *VM) compileModuleFile(abs string) (*compiler.Program, error) {
	chunk, err := parser.ParseFile(vm.fset, abs)
	if err != nil {
		return nil, err
	}
	info, err := resolver.Resolve(vm.fset, abs, chunk)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(vm.fset, abs, chunk, info)
}

func (vm *VM) natHost() *natmod.Host {
	return &natmod.Host{
		Args:        vm.cfg.Args,
		Stdout:      vm.stdout,
		Stderr:      vm.stderr,
		Stdin:       vm.stdin,
		Exit:        func(code int) { panic(&exitSignal{code: code}) },
		AllocNative: vm.heap.AllocNative,
	}
}

// exitSignal unwinds the VM on os.exit(), recovered in Run.
type exitSignal struct {
	code int
}
