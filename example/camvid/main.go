package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/sugarme/gotch"
)

// flag variables
var (
	DataPath  string
	ModelPath string
	Cuda      bool
	task      string
	OptStr    string
	Device    gotch.Device
)

// hyperparameters
var (
	LR           float64 // learning rate
	BatchSize    int     // batch size
	Epochs       int     // training epochs
	NumClasses   int     // number of segmentation classes
	ImageWidth   int     // input image width
	ImageHeight  int     // input image height
	ContrastNorm string  // input contrast normalization method
	Pretrained   string  // optional VGG16-BN weight '.ot' file
)

func init() {
	flag.StringVar(&DataPath, "input", "./input", "specify input data directory")
	flag.StringVar(&ModelPath, "model", "./checkpoint/segnet.gt", "specify full path to model checkpoint '.gt' file.")
	flag.BoolVar(&Cuda, "cuda", false, "specify whether using CUDA or not.")
	flag.StringVar(&task, "task", "train", "specify task to run")
	flag.Float64Var(&LR, "lr", 0.001, "specify learning rate")
	flag.IntVar(&BatchSize, "batch", 4, "specify batch size")
	flag.IntVar(&Epochs, "epochs", 50, "specify number of training epochs")
	flag.IntVar(&NumClasses, "classes", 11, "specify number of segmentation classes")
	flag.IntVar(&ImageWidth, "width", 480, "specify input image width")
	flag.IntVar(&ImageHeight, "height", 352, "specify input image height")
	flag.StringVar(&ContrastNorm, "norm", "lcn", "specify contrast normalization ('gcn', 'lcn' or 'none')")
	flag.StringVar(&Pretrained, "pretrained", "", "specify VGG16-BN weight '.ot' file to pre-train the encoder")
	flag.StringVar(&OptStr, "opt", "SGD", "specify optimizer type")
}

func main() {
	flag.Parse()

	DataPath = absPath(DataPath)
	ModelPath = absPath(ModelPath)

	Device = gotch.CPU
	if Cuda {
		Device = gotch.NewCuda().CudaIfAvailable()
	}

	switch task {
	case "model":
		runCheckModel()
	case "train":
		runTrain()
	case "eda":
		runEDA()
	case "image":
		processImages()
	default:
		err := fmt.Errorf("Unknown 'task' name. Please specify valid 'task' flag to run.\n")
		panic(err)
	}
}

// helper to get absolute file path
func absPath(p string) string {
	fullpath, err := filepath.Abs(p)
	if err != nil {
		log.Fatal(err)
	}
	return fullpath
}
