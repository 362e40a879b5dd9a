package controllers

import "github.com/sethvargo/go-envconfig"

// WithEnv replaces the process environment and exit hook of the controller.
func (it *BumpController) WithEnv(lookuper envconfig.Lookuper, exit func(int)) *BumpController {
	it.env = runEnv{lookuper: lookuper, exit: exit}
	return it
}

// WithEnv replaces the process environment and exit hook of the controller.
func (it *CheckController) WithEnv(lookuper envconfig.Lookuper, exit func(int)) *CheckController {
	it.env = runEnv{lookuper: lookuper, exit: exit}
	return it
}
