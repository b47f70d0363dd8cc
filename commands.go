package reflector

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// AddEntity reserves an id right away; the entity joins the scene when the
// current stage's commands are flushed.
func (cmd *Commands) AddEntity(e *Entity) EntityId {
	e.Id = cmd.app.scene.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, e)
	return e.Id
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

// Quit stops App.Run after the current frame.
func (cmd *Commands) Quit() {
	cmd.app.quit = true
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
