package spheredemo

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseSystem schedules a system; see App.UseSystem.
func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit stops the app after the current frame finishes.
func (cmd *Commands) Exit() {
	cmd.app.exiting = true
}

func (cmd *Commands) Exiting() bool {
	return cmd.app.exiting
}
