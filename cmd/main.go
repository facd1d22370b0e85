package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pslimit/pkg"
)

var rootCmd = &cobra.Command{
	Use:  "pslimit",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		executeScan()
	},
}

var configPath = ""
var outputName = ""
var targetPid = 0
var includeChildren = false
var targetUID = -1
var excludeInteractive = false
var excludeFile = ""

func init() {
	rootCmd.AddCommand(scanCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "filter option file path (json or yaml)")
	flags.StringVarP(&outputName, "output", "o", "", "report output file name")
	flags.IntVarP(&targetPid, "pid", "p", 0, "target pid, 0 for all processes")
	flags.BoolVarP(&includeChildren, "children", "r", false, "include descendants of the target pid")
	flags.IntVarP(&targetUID, "uid", "u", -1, "only processes owned by this uid")
	flags.BoolVarP(&excludeInteractive, "exclude-interactive", "e", false, "skip shells and other excluded names")
	flags.StringVarP(&excludeFile, "exclude-file", "x", "", "exclude list file path")
}

func buildOption() *pkg.FilterOption {
	if configPath != "" {
		option, err := pkg.LoadFilterOption(configPath)
		if err != nil {
			logrus.WithField("config", configPath).Fatalln("cannot load filter option:", err)
		}
		return option
	}
	option := pkg.NewFilterOption()
	option.Pid = targetPid
	option.IncludeChildren = includeChildren
	if targetUID >= 0 {
		option.FilterByUser = true
		option.UID = targetUID
	}
	option.ExcludeInteractive = excludeInteractive
	option.ExcludeFile = excludeFile
	return option
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
