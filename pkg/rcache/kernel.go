package rcache

import(
	"fmt"
	"sort"

	"golang.org/x/image/draw"
)

var(
	kernels = map[string]draw.Interpolator{
		"nearest":        draw.NearestNeighbor,
		"approxbilinear": draw.ApproxBiLinear,
		"bilinear":       draw.BiLinear,
		"catmullrom":     draw.CatmullRom,
	}

	DefaultKernel = "catmullrom"
)

func ListKernels() []string {
	names := []string{}
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func KernelByName(name string) (draw.Interpolator, error) {
	if name == "" {
		name = DefaultKernel
	}
	if k, exists := kernels[name]; exists {
		return k, nil
	}
	return nil, fmt.Errorf("no resampling kernel named '%s', wanted %v", name, ListKernels())
}
