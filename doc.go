// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package irtemp is a container for the MLX90614 infrared thermometer driver
// and the polling host that runs it.
//
// The driver lives in mlx90614, the periodic sampler with its safety check in
// sensor, and the host program in cmd/mlx90614.
package irtemp
