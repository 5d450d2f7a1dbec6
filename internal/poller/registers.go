// internal/poller/registers.go
package poller

// Register offsets relative to a charging point's base address.
// Process-wide constants; layout is fixed by the charging controller.
const (
	RegVoltageL1      uint16 = 232
	RegVoltageL2      uint16 = 234
	RegVoltageL3      uint16 = 236
	RegCurrentL1      uint16 = 238
	RegCurrentL2      uint16 = 240
	RegCurrentL3      uint16 = 242
	RegPower          uint16 = 244
	RegReactivePower  uint16 = 246
	RegApparentPower  uint16 = 248
	RegEnergyTotal    uint16 = 250 // 4 registers
	RegEnergyReactive uint16 = 254 // reserved
	RegEnergyApparent uint16 = 258 // reserved
	RegCurrentSetting uint16 = 297 // reserved
	RegVehicleStatus  uint16 = 299 // reserved
)

// Metric labels, mbmd naming.
const (
	LabelVoltageL1     = "Voltage/L1"
	LabelVoltageL2     = "Voltage/L2"
	LabelVoltageL3     = "Voltage/L3"
	LabelCurrentL1     = "Current/L1"
	LabelCurrentL2     = "Current/L2"
	LabelCurrentL3     = "Current/L3"
	LabelPower         = "Power"
	LabelReactivePower = "ReactivePower"
	LabelApparentPower = "ApparentPower"
	LabelImport        = "Import"
	LabelCosphi        = "Cosphi"
)

type width int

const (
	widthU32 width = iota
	widthI32
	widthU64
)

// field is one entry of the fixed read sequence.
type field struct {
	label  string
	offset uint16
	width  width
	scale  float64 // divisor; 0 => unscaled integer
}

// readSequence is the order registers are read for every point.
// milli-units (mV, mA, mW) are divided by 1000; energy stays in Wh.
var readSequence = []field{
	{LabelVoltageL1, RegVoltageL1, widthU32, 1000},
	{LabelVoltageL2, RegVoltageL2, widthU32, 1000},
	{LabelVoltageL3, RegVoltageL3, widthU32, 1000},
	{LabelCurrentL1, RegCurrentL1, widthU32, 1000},
	{LabelCurrentL2, RegCurrentL2, widthU32, 1000},
	{LabelCurrentL3, RegCurrentL3, widthU32, 1000},
	{LabelPower, RegPower, widthU32, 1000},
	{LabelReactivePower, RegReactivePower, widthI32, 1000},
	{LabelApparentPower, RegApparentPower, widthU32, 1000},
	{LabelImport, RegEnergyTotal, widthU64, 0},
}
