// Package infrastructure provides reusable infrastructure components for Go applications.
package infrastructure

import (
	"strings"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter adapts a zap.SugaredLogger to the fxevent.Logger
// interface so Fx lifecycle events flow through the application logger.
type FxLoggerAdapter struct {
	logger *zap.SugaredLogger
}

// NewFxLoggerAdapter creates a new Fx logger adapter backed by zap.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger.Sugar()}
}

// LogEvent implements fxevent.Logger.
func (p *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		p.logger.Debugf("HOOK OnStart executing: %s, function: %s", e.CallerName, e.FunctionName)
	case *fxevent.OnStartExecuted:
		p.hookResult("OnStart", e.CallerName, e.FunctionName, e.Err)
	case *fxevent.OnStopExecuting:
		p.logger.Debugf("HOOK OnStop executing: %s, function: %s", e.CallerName, e.FunctionName)
	case *fxevent.OnStopExecuted:
		p.hookResult("OnStop", e.CallerName, e.FunctionName, e.Err)
	case *fxevent.Provided:
		p.logger.Debugf("PROVIDE: %s", strings.Join(e.OutputTypeNames, ", "))
	case *fxevent.Supplied:
		p.logger.Debugf("SUPPLY: %s", e.TypeName)
	case *fxevent.Invoking:
		p.logger.Debugf("INVOKE: %s", e.FunctionName)
	case *fxevent.Invoked:
		if e.Err != nil {
			p.logger.Errorf("INVOKE failed: %s, error: %v", e.FunctionName, e.Err)
		}
	case *fxevent.Stopping:
		p.logger.Infof("STOPPING: %s", e.Signal)
	case *fxevent.Stopped:
		p.simple("STOPPED", e.Err)
	case *fxevent.RollingBack:
		p.logger.Errorf("ROLLING BACK: %v", e.StartErr)
	case *fxevent.RolledBack:
		p.simple("ROLLED BACK", e.Err)
	case *fxevent.Started:
		p.simple("STARTED", e.Err)
	case *fxevent.LoggerInitialized:
		p.simple("LOGGER INITIALIZED", e.Err)
	default:
		p.logger.Debugf("UNKNOWN Fx event: %T", event)
	}
}

func (p *FxLoggerAdapter) hookResult(action, caller, function string, err error) {
	if err != nil {
		p.logger.Errorf("HOOK %s failed: %s, function: %s, error: %v", action, caller, function, err)
	} else {
		p.logger.Debugf("HOOK %s executed: %s, function: %s", action, caller, function)
	}
}

func (p *FxLoggerAdapter) simple(action string, err error) {
	if err != nil {
		p.logger.Errorf("%s with error: %v", action, err)
	} else {
		p.logger.Info(action)
	}
}
