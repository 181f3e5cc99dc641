/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/goporous/InputParameters"
	"github.com/spf13/viper"
)

var exampleFiles = map[string]string{
	"1p2c": `
########################################
Title: "Tracer Column"
Model: 1p2c
FluidSystem: h2o-tracer
Grid: {NX: 40, NY: 2, LX: 2., LY: 0.1}
Dt: 10
MaxDt: 200
FinalTime: 2000
UseMoles: true
Initial: [1.e5, 0.]
Physics: {Porosity: 0.4, Permeability: 1.e-10, Dispersivity: 0.01}
BCs:
  left:
    Type: dirichlet
    Values: [1.1e5, 1.e-3]
  right:
    Types: [dirichlet, outflow]
    Values: [1.e5, 0.]
########################################
`,
	"pvs": `
########################################
Title: "Gas Injection"
Model: pvs
FluidSystem: h2o-air
Grid: {NX: 20, NY: 10, LX: 2., LY: 1.}
Dt: 10
MaxDt: 500
FinalTime: 5000
EnableGravity: true
MaterialFile: materials.ini # Optional, Brooks-Corey otherwise
Material: sand
BCs:
  bottom:
    Type: neumann
    Values: [0., -1.e-5]
  right:
    Type: dirichlet
    Values: [1.e5, 0.]
########################################
`,
}

// processInput reads the YAML input parameters of a model, printing an
// example file when none is given
func processInput(model, icFile string) (ip *InputParameters.InputParameters, err error) {
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFiles[model])
		return
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		return
	}
	if ip, err = parseInput(model, data); err != nil {
		err = fmt.Errorf("%s: %w", icFile, err)
	}
	return
}

func parseInput(model string, data []byte) (ip *InputParameters.InputParameters, err error) {
	ip = InputParameters.NewInputParameters()
	ip.Model = model
	if model == "pvs" {
		ip.FluidSystem = "h2o-air"
	}
	if err = ip.Parse(data); err != nil {
		return
	}
	if ip.Model != model {
		err = fmt.Errorf("input is for model %s, not %s", ip.Model, model)
		return
	}
	if procs := viper.GetInt("procs"); procs > 0 {
		ip.ProcLimit = procs
	}
	return
}
