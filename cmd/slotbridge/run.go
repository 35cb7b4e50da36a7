package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/handle"
	"github.com/wippyai/slotbridge/runtime"
	"github.com/wippyai/slotbridge/scene"
	"github.com/wippyai/slotbridge/scene/refs"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		wasmFile string
		funcName string
		args     []string
		list     bool
		showTree bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a WASM guest against a scene",
		Long: `Instantiate a core WASM guest with the resonite host module bound to the
scene, call one of its exports with i64 arguments, and print the results.

Arguments are unsigned integers (decimal or 0x-prefixed) or the name "root"
for the root slot handle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if wasmFile == "" {
				return errors.InvalidInput(errors.PhaseLoad, "--wasm is required")
			}
			world, err := a.loadScene()
			if err != nil {
				return err
			}
			defer world.Close()
			world.Subscribe(refLogger(a.log))

			return a.run(cmd.Context(), cmd, world, runParams{
				wasmFile: wasmFile,
				funcName: funcName,
				args:     args,
				list:     list,
				showTree: showTree,
			})
		},
	}
	cmd.Flags().StringVar(&wasmFile, "wasm", "", "guest module (.wasm)")
	cmd.Flags().StringVar(&funcName, "func", "main", "export to call")
	cmd.Flags().StringSliceVar(&args, "arg", nil, "argument to pass (repeatable)")
	cmd.Flags().BoolVar(&list, "list", false, "list imports and exports and exit")
	cmd.Flags().BoolVar(&showTree, "tree", true, "print the scene tree after the call")
	return cmd
}

type runParams struct {
	wasmFile string
	funcName string
	args     []string
	list     bool
	showTree bool
}

func (a *app) run(ctx context.Context, cmd *cobra.Command, world *scene.World, p runParams) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(p.wasmFile)
	if err != nil {
		return errors.Load("read "+p.wasmFile, err)
	}

	rt, err := runtime.New(ctx, world,
		runtime.WithLogger(a.log),
		runtime.WithMemoryLimitPages(a.cfg.MemoryLimitPages),
		runtime.WithStdio(out, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWASM(ctx, data)
	if err != nil {
		return err
	}
	if p.list {
		fmt.Fprintln(out, subtitleStyle.Render("Imports:"))
		for _, imp := range mod.Imports() {
			fmt.Fprintf(out, "  %s.%s\n", imp.Module, imp.Name)
		}
		fmt.Fprintln(out, subtitleStyle.Render("Exports:"))
		for _, name := range mod.Exports() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	callArgs, err := parseArgs(p.args, world.RootSlot())
	if err != nil {
		return err
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	a.log.Info("calling guest",
		zap.String("func", p.funcName),
		zap.Strings("host_imports", mod.HostImports()))
	res, err := inst.Call(ctx, p.funcName, callArgs...)
	if err != nil {
		return err
	}
	types := inst.GetExportedFunction(p.funcName).Definition().ResultTypes()
	for i, v := range res {
		fmt.Fprintf(out, "result[%d] = %s\n", i, formatResult(types[i], v))
	}

	if p.showTree {
		r := treeRenderer{world: world, depth: -1, fields: true}
		fmt.Fprint(out, r.render(world.RootSlot()))
	}
	return nil
}

// formatResult decodes a raw result word by its core type. i32 results only
// define the low half of the word.
func formatResult(t api.ValueType, v uint64) string {
	switch t {
	case api.ValueTypeI32:
		return fmt.Sprintf("%d (%#x)", api.DecodeI32(v), api.DecodeU32(v))
	case api.ValueTypeF32:
		return strconv.FormatFloat(float64(api.DecodeF32(v)), 'g', -1, 32)
	case api.ValueTypeF64:
		return strconv.FormatFloat(api.DecodeF64(v), 'g', -1, 64)
	default:
		return fmt.Sprintf("%d (%#x)", v, v)
	}
}

// parseArgs converts CLI arguments to raw i64 call arguments.
func parseArgs(args []string, root handle.Handle) ([]uint64, error) {
	out := make([]uint64, len(args))
	for i, s := range args {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "root") {
			out[i] = uint64(root)
			continue
		}
		if strings.HasPrefix(s, "-") {
			v, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "argument "+strconv.Itoa(i))
			}
			out[i] = uint64(v)
			continue
		}
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "argument "+strconv.Itoa(i))
		}
		out[i] = v
	}
	return out, nil
}

// refLogger logs handle lifecycle events at debug level.
func refLogger(log *zap.Logger) refs.Observer {
	return refs.ObserverFunc(func(e refs.Event) {
		log.Debug("ref "+e.Type.String(),
			zap.Stringer("kind", e.Kind),
			zap.Stringer("id", e.ID))
	})
}
