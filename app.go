package reflector

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App is the session: it owns every resource the modules install and runs
// the scheduled systems stage by stage, once per frame.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	scene     *Scene

	frame uint64
	quit  bool

	// Command Buffering
	pendingAdditions []*Entity
	pendingRemovals  []EntityId
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		scene:     NewScene(),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	app.addResources(app.scene)
	return app
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
		// Later modules look up entities earlier ones spawned.
		app.FlushCommands()
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Scene returns the scene graph shared by every module of the session.
func (app *App) Scene() *Scene {
	return app.scene
}

// Frame reports how many frames Step has completed.
func (app *App) Frame() uint64 {
	return app.frame
}

// Step runs a single frame: every stage in order, flushing commands after
// each stage so that later stages observe earlier structural changes.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

// Run drives Step until ctx is cancelled or a system requests quit.
func (app *App) Run(ctx context.Context) error {
	app.Logger().Infof("running with %d stages", len(app.stages))
	for !app.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		app.Step()
	}
	app.Logger().Infof("quit after %d frames", app.frame)
	return nil
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource installed by a module.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 {
		return
	}

	// Removals first so an id is never resurrected by a later add.
	for _, eid := range app.pendingRemovals {
		if !app.scene.Remove(eid) {
			app.Logger().Warnf("remove of unknown entity %d", eid)
		}
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, e := range app.pendingAdditions {
		app.scene.insert(e)
	}
	app.pendingAdditions = app.pendingAdditions[:0]
}
