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
	"github.com/notargets/goporous/model_problems/TracerColumn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// OnePTwoCCmd represents the 1p2c command
var OnePTwoCCmd = &cobra.Command{
	Use:   "1p2c",
	Short: "Single phase, two component transport",
	Long: `
Runs the tracer column: one liquid phase carrying a dissolved component,
advected by Darcy flow and spread by diffusion and dispersion.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		ip, err := processInput("1p2c", icFile)
		if err != nil {
			return
		}
		ip.Print()
		var c *TracerColumn.TracerColumn
		if c, err = TracerColumn.NewTracerColumn(ip); err != nil {
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
	rootCmd.AddCommand(OnePTwoCCmd)
	OnePTwoCCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Grid\n\t- BCs per domain side")
}
