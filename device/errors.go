package device

import (
	"fmt"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

// ErrorName returns a textual description of an opencl error code.
func ErrorName(errCode cl.ErrorCode) string {
	switch errCode {
	case 0:
		return "SUCCESS"
	case -1:
		return "DEVICE_NOT_FOUND"
	case -2:
		return "DEVICE_NOT_AVAILABLE"
	case -3:
		return "COMPILER_NOT_AVAILABLE"
	case -4:
		return "MEM_OBJECT_ALLOCATION_FAILURE"
	case -5:
		return "OUT_OF_RESOURCES"
	case -6:
		return "OUT_OF_HOST_MEMORY"
	case -11:
		return "BUILD_PROGRAM_FAILURE"
	case -30:
		return "INVALID_VALUE"
	case -33:
		return "INVALID_DEVICE"
	case -34:
		return "INVALID_CONTEXT"
	case -36:
		return "INVALID_COMMAND_QUEUE"
	case -38:
		return "INVALID_MEM_OBJECT"
	case -44:
		return "INVALID_PROGRAM"
	case -45:
		return "INVALID_PROGRAM_EXECUTABLE"
	case -46:
		return "INVALID_KERNEL_NAME"
	case -48:
		return "INVALID_KERNEL"
	case -51:
		return "INVALID_ARG_SIZE"
	case -52:
		return "INVALID_KERNEL_ARGS"
	case -54:
		return "INVALID_WORK_GROUP_SIZE"
	default:
		return fmt.Sprintf("unknown error code %d", errCode)
	}
}
