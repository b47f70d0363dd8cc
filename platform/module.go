package platform

import (
	"github.com/gekko3d/reflector"
)

// Module polls the window at the start of every frame and presents at the
// end of it. Closing the window quits the app.
type Module struct {
	Window *Window
}

func (mod Module) Install(app *reflector.App, cmd *reflector.Commands) {
	input, ok := reflector.Resource[reflector.Input](app)
	if !ok {
		panic("platform.Module requires Input; install InputModule first")
	}
	mod.Window.Bind(input)
	cmd.AddResources(mod.Window)

	app.UseSystem(
		reflector.System(pollSystem).
			InStage(reflector.Prelude),
	)
	app.UseSystem(
		reflector.System(swapSystem).
			InStage(reflector.PostRender),
	)
}

func pollSystem(w *Window, cmd *reflector.Commands) {
	w.PollEvents()
	if w.ShouldClose() {
		cmd.Logger().Infof("window closed")
		cmd.Quit()
	}
}

func swapSystem(w *Window) {
	w.SwapBuffers()
}
