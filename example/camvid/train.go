package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"time"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/dutil"
	"github.com/sugarme/segnet/encoder"
	"github.com/sugarme/segnet/metric"
	"github.com/sugarme/segnet/segnet"
)

// number of leading files held out for validation
const valSize = 100

func buildModel(vs *nn.VarStore) *segnet.SegNet {
	net := segnet.NewSegNet(vs.Root(), segnet.Config{
		NumClasses:   int64(NumClasses),
		ContrastNorm: ContrastNorm,
	})

	if Pretrained != "" {
		if err := encoder.TransferVGG16(vs, Pretrained); err != nil {
			log.Fatal(err)
		}
	}

	return net
}

func buildOptimizer(vs *nn.VarStore) *nn.Optimizer {
	var (
		opt *nn.Optimizer
		err error
	)
	switch OptStr {
	case "SGD":
		config := nn.DefaultSGDConfig()
		config.Momentum = 0.9
		config.Wd = 5e-4
		opt, err = config.Build(vs, LR)
	case "Adam":
		opt, err = nn.DefaultAdamConfig().Build(vs, LR)
	default:
		err = fmt.Errorf("Unspecified/Invalid Optimizer option: '%v'.\n", OptStr)
	}
	if err != nil {
		log.Fatal(err)
	}

	return opt
}

// stackBatch stacks a loader batch into image [B, 3, H, W] and one-hot mask
// [B, H, W, C] tensors.
func stackBatch(s interface{}) (imgTs, maskTs *ts.Tensor) {
	var img, mask []ts.Tensor
	for _, i := range s.([]ImageMask) {
		img = append(img, i.image)
		mask = append(mask, i.mask)
	}

	imgTs = ts.MustStack(img, 0)
	for _, x := range img {
		x.MustDrop()
	}
	maskTs = ts.MustStack(mask, 0)
	for _, x := range mask {
		x.MustDrop()
	}

	return imgTs, maskTs
}

func listDataFiles() (trainFiles, valFiles []string) {
	imgPath := fmt.Sprintf("%v/image", DataPath)
	files, err := ioutil.ReadDir(imgPath)
	if err != nil {
		log.Fatal(err)
	}

	for i, f := range files {
		if i < valSize {
			valFiles = append(valFiles, f.Name())
			continue
		}
		trainFiles = append(trainFiles, f.Name())
	}

	return trainFiles, valFiles
}

func runTrain() {
	vs := nn.NewVarStore(Device)
	net := buildModel(vs)
	opt := buildOptimizer(vs)

	weights := loadClassWeights()
	criterion := metric.BuildWeightedCrossEntropy(weights)

	trainFiles, valFiles := listDataFiles()

	trainDS := NewCamVidDataset(trainFiles, int64(NumClasses))
	s, err := dutil.NewBatchSampler(trainDS.Len(), BatchSize, true, true)
	if err != nil {
		log.Fatal(err)
	}
	trainDL, err := dutil.NewDataLoader(trainDS, s)
	if err != nil {
		log.Fatal(err)
	}

	for e := 0; e < Epochs; e++ {
		start := time.Now()
		trainDL.Reset()
		var losses []float64

		for trainDL.HasNext() {
			s, err := trainDL.Next()
			if err != nil {
				log.Fatal(err)
			}

			imgTs, maskTs := stackBatch(s)
			input := imgTs.MustTo(Device, true)
			target := maskTs.MustTo(Device, true)

			prob := net.ForwardT(input, true)
			input.MustDrop()

			// class dim last for loss/metrics
			pred := prob.MustPermute([]int64{0, 2, 3, 1}, true)

			loss := criterion(target, pred)
			pred.MustDrop()
			target.MustDrop()

			opt.BackwardStep(loss)
			losses = append(losses, loss.Float64Values()[0])
			loss.MustDrop()
		}

		var lossSum float64
		for _, l := range losses {
			lossSum += l
		}
		tloss := lossSum / float64(len(losses))

		vloss, acc, miou := doValidate(net, valFiles, criterion)
		fmt.Printf("Epoch %02d\t train loss: %6.4f\t valid loss: %6.4f\t accuracy: %6.4f\t mean IoU: %6.4f\t Taken time: %0.2fMin\n",
			e, tloss, vloss, acc, miou, time.Since(start).Minutes())
	}

	if err := vs.Save(ModelPath); err != nil {
		log.Fatal(err)
	}
}

func doValidate(net *segnet.SegNet, valFiles []string, criterion func(truth, pred *ts.Tensor) *ts.Tensor) (loss, acc, miou float64) {
	valDS := NewCamVidDataset(valFiles, int64(NumClasses))
	s, err := dutil.NewBatchSampler(valDS.Len(), BatchSize, false, false) // no shuffle
	if err != nil {
		log.Fatal(err)
	}
	valDL, err := dutil.NewDataLoader(valDS, s)
	if err != nil {
		log.Fatal(err)
	}

	var (
		losses []float64
		accs   []float64
		mious  []float64
	)

	for valDL.HasNext() {
		s, err := valDL.Next()
		if err != nil {
			log.Fatal(err)
		}

		imgTs, maskTs := stackBatch(s)

		ts.NoGrad(func() {
			input := imgTs.MustTo(Device, true)
			target := maskTs.MustTo(Device, true)

			prob := net.ForwardT(input, false)
			input.MustDrop()
			pred := prob.MustPermute([]int64{0, 2, 3, 1}, true)

			l := criterion(target, pred)
			losses = append(losses, l.Float64Values()[0])
			l.MustDrop()

			a, err := metric.CategoricalAccuracy(target, pred)
			if err != nil {
				log.Fatal(err)
			}
			accs = append(accs, a)

			m, err := metric.MeanIoU(target, pred)
			if err != nil {
				log.Fatal(err)
			}
			mious = append(mious, m)

			pred.MustDrop()
			target.MustDrop()
		})
	}

	return mean(losses), mean(accs), mean(mious)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}

	return sum / float64(len(vals))
}

func runCheckModel() {
	vs := nn.NewVarStore(gotch.CPU)
	net := buildModel(vs)

	image := ts.MustRand([]int64{1, 3, int64(ImageHeight), int64(ImageWidth)}, gotch.Float, gotch.CPU)
	prob := net.ForwardT(image, false)

	fmt.Printf("input: %v\n", image.MustSize())
	fmt.Printf("output: %v\n", prob.MustSize())

	image.MustDrop()
	prob.MustDrop()
}
