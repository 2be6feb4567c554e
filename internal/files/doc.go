// Package files discovers survey files on disk and derives output paths.
//
// Discovery lists the .csv and .xlsx surveys in a directory in name order,
// which is the order the CLI processes them in. DefaultOutputPath maps an
// input file to the PNG written beside it:
//
//	discovery := files.NewDiscovery("")
//	surveys, err := discovery.FindSurveyFiles("data")
//	for _, s := range surveys {
//	    out := files.DefaultOutputPath(s.Path) // data/<name>.png
//	}
package files
