//go:build linux

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
	"github.com/hodgesds/perf-utils"
	"github.com/notargets/goporous/utils"
	log "github.com/sirupsen/logrus"
)

// reportAssemblyCycles counts the hardware cpu cycles of one Jacobian assembly
func reportAssemblyCycles(assemble func() (utils.DOK, []float64, error)) (err error) {
	var (
		pv  *perf.ProfileValue
		nnz int
	)
	pv, err = perf.CPUCycles(func() (aErr error) {
		var J utils.DOK
		if J, _, aErr = assemble(); aErr == nil {
			nnz = J.NNZ()
		}
		return
	})
	if err != nil {
		return
	}
	log.WithFields(log.Fields{"cycles": pv.Value, "nonzeros": nnz}).Info("jacobian assembly")
	return
}
