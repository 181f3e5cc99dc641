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

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goporous",
	Short: "Box scheme solver for compositional flow in porous media",
	Long: `
Solves single and multi phase, multi component flow in porous media with a
vertex centered finite volume (box) scheme, implicit Euler in time and a
damped Newton method.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."))
		default:
			err = fmt.Errorf("unknown profile mode %q, choose cpu or mem", mode)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goporous.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log Newton iterations and phase switches")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the working directory")
	rootCmd.PersistentFlags().IntP("procs", "p", 0, "limit on parallel shards, 0 uses all cores")
	rootCmd.PersistentFlags().Bool("perf", false, "report hardware cpu cycles of one Jacobian assembly (linux)")
	for _, name := range []string{"verbose", "profile", "procs", "perf"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".goporous" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".goporous")
	}
	viper.SetEnvPrefix("goporous")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}
