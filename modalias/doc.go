// Package modalias reads modules.alias files and indexes device tree
// compatible strings by the module that claims them.
//
// A modules.alias line has the form
//
//	alias <alias-string> <module-name>
//
// Device tree aliases use the "of:" family, which embeds compatible strings
// after the letter C:
//
//	alias of:N*T*Cfsl,imx6q-uartC* imx_uart
//
// IndexByCompatible splits such aliases on C and maps every embedded string
// other than the "*" wildcard to the module.
package modalias
