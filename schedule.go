package spheredemo

import (
	"fmt"
	"slices"
)

// State is an app-defined phase. Stateful apps walk from the initial to
// the final state through Commands.ChangeState.
type State int

// Stage is a named slot in the frame. Stages run in order every frame.
type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

var defaultStages = []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}

type statePhase int

const (
	enter statePhase = iota
	execute
	exit
)

// statePhaseRef pins a system to one phase of one state.
type statePhaseRef struct {
	state State
	phase statePhase
}

// OnEnter runs a system once, when the app switches into state.
func OnEnter(state State) statePhaseRef {
	return statePhaseRef{state: state, phase: enter}
}

// OnExecute runs a system every frame while the app is in state.
func OnExecute(state State) statePhaseRef {
	return statePhaseRef{state: state, phase: execute}
}

// OnExit runs a system once, when the app leaves state.
func OnExit(state State) statePhaseRef {
	return statePhaseRef{state: state, phase: exit}
}

type systemScheduleBuilder struct {
	system  systemFn
	inStage Stage
	// nil runs every frame regardless of state.
	inState *statePhaseRef
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{system: system, inStage: Update}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

func (sched systemScheduleBuilder) InState(ref statePhaseRef) systemScheduleBuilder {
	sched.inState = &ref
	return sched
}

// RunAlways drops any state binding so the system runs every frame.
func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.inState = nil
	return sched
}

// stageAnchor names the stage a new stage is inserted after.
type stageAnchor struct {
	target Stage
}

func AfterStage(s Stage) stageAnchor {
	return stageAnchor{target: s}
}

// UseStage inserts stage directly after the anchor stage.
func (app *App) UseStage(stage Stage, where stageAnchor) *App {
	idx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if idx < 0 {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if _, ok := app.systemsStateless[stage.Name]; ok {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	app.stages = slices.Insert(app.stages, idx+1, stage)
	app.initStage(stage)
	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	stage := system.inStage.Name
	if system.inState == nil {
		if _, ok := app.systemsStateless[stage]; !ok {
			panic(fmt.Sprintf("Stage %v doesn't exist", stage))
		}
		app.systemsStateless[stage] = append(app.systemsStateless[stage], system.system)
		return app
	}

	if !app.stateful {
		panic("Trying to use a stateful system in a stateless app.")
	}
	systemsInStage, ok := app.systems[stage]
	if !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", stage))
	}
	systemsInState, ok := systemsInStage[system.inState.state]
	if !ok {
		panic(fmt.Sprintf("State %v doesn't exist", system.inState.state))
	}
	phase := system.inState.phase
	systemsInState[phase] = append(systemsInState[phase], system.system)
	return app
}

func (app *App) initStage(stage Stage) {
	app.systemsStateless[stage.Name] = make([]systemFn, 0)
	if !app.stateful {
		return
	}

	app.systems[stage.Name] = make(map[State]map[statePhase][]systemFn)
	for state := app.initialState; state <= app.finalState; state++ {
		app.systems[stage.Name][state] = map[statePhase][]systemFn{
			enter:   {},
			execute: {},
			exit:    {},
		}
	}
}
