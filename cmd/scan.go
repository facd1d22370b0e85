package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pslimit/pkg"
)

var scanCmd = &cobra.Command{
	Use: "scan",
	Run: func(cmd *cobra.Command, args []string) {
		executeScan()
	},
}

func executeScan() {
	option := buildOption()
	registry := pkg.NewExcludeRegistry(option.ExcludeFile)
	defer registry.Teardown()

	report, err := pkg.TakeReport(option.Filter(), registry)
	if err != nil {
		if errors.Is(err, pkg.ErrProcNotMounted) {
			logrus.Errorln("procfs is not mounted, aborting")
			os.Exit(2)
		}
		logrus.Fatalln(err)
	}
	if outputName != "" {
		report.DumpFile(outputName)
	} else {
		report.Print()
	}
}
