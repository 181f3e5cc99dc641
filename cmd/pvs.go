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
	"github.com/notargets/goporous/model_problems/Injection"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PVSCmd represents the pvs command
var PVSCmd = &cobra.Command{
	Use:   "pvs",
	Short: "Multi phase, multi component flow with primary variable switching",
	Long: `
Runs the gas injection problem: gas enters a liquid saturated domain, dissolves
and forms a gas phase once the liquid is saturated. Phases appear and vanish
per vertex by switching the primary variables.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		ip, err := processInput("pvs", icFile)
		if err != nil {
			return
		}
		ip.Print()
		var c *Injection.Injection
		if c, err = Injection.NewInjection(ip); err != nil {
			return
		}
		if viper.GetBool("perf") {
			if err = reportAssemblyCycles(c.Assembler.Assemble); err != nil {
				return
			}
		}
		return c.Solve()
	},
}

func init() {
	rootCmd.AddCommand(PVSCmd)
	PVSCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Grid\n\t- BCs per domain side\n\t- InitialPhases")
}
