package cli

const Reset = "\x1b[0m"
const RedColour = "\x1b[31m"
const GreenColour = "\x1b[32m"
const YellowColour = "\x1b[33m"
const BlueColour = "\x1b[34m"
const MagentaColour = "\x1b[35m"
const CyanColour = "\x1b[36m"
const GrayColour = "\x1b[37m"
const WhiteColour = "\x1b[97m"
