package machine

import (
	"fmt"
	"strings"

	"github.com/byteguy8/zeus/lang/objects"
)

// bindBuiltins populates every global slot the resolver pre-seeded from
// resolver.Builtins (spec.md §2: "how `print` is wired... is replaceable
// glue") with its native implementation. Every zeus module gets its own
// slot, bound against this vm so println always writes to the stdout this
// run was configured with.
func (vm *VM) bindBuiltins(mod *objects.ModuleObj) {
	if slot, ok := mod.Globals["println"]; ok {
		slot.Value = objects.FromObject(vm.heap.AllocNativeFunction("", "println", -1, vm.builtinPrintln, objects.Empty))
	}
}

// builtinPrintln stringifies each argument (objects.Stringify) and writes
// them space-separated, newline-terminated, to the configured stdout,
// mirroring the println calls spec.md's end-to-end scenarios use.
func (vm *VM) builtinPrintln(args []objects.Value) (objects.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = objects.Stringify(a, nil)
	}
	fmt.Fprintln(vm.stdout, strings.Join(parts, " "))
	return objects.Empty, nil
}
