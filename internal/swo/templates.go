package swo

const cCodeTemplate = `extern uint32_t SystemCoreClock;
void SWO_ITM_enable(void)
{
  /*
    This functions recommends system speed of {{.CoreHz}}Hz and will
    use SWO clock speed of {{.TraceHz}}Hz

    # GDB OpenOCD commands to connect to this:
{{- range .Monitor}}
    {{.}}
{{- end}}

    Code Gen Ref: {{.Ref}}
  */

  /* Setup SWO and SWO funnel (Note: SWO_BASE and SWTF_BASE not defined in stm32h743xx.h) */
  // DBGMCU_CR : Enable D3DBGCKEN D1DBGCKEN TRACECLKEN Clock Domains
  DBGMCU->CR =  DBGMCU_CR_DBG_CKD3EN | DBGMCU_CR_DBG_CKD1EN | DBGMCU_CR_DBG_TRACECKEN; // DBGMCU_CR
  // SWO_LAR & SWTF_LAR : Unlock SWO and SWO Funnel
  *((uint32_t *)({{.Addr "SWO_LAR"}})) = {{.Key}}; // SWO_LAR
  *((uint32_t *)({{.Addr "SWTF_LAR"}})) = {{.Key}}; // SWTF_LAR
  // SWO_CODR  : {{.CoreHz}}Hz -> {{.TraceHz}}Hz
  // Note: SWOPrescaler = ((sysclock_Hz / SWOSpeed_Hz) - 1) --> {{.PrescalerHex}} = {{.Prescaler}} = ({{.CoreHz}} / {{.TraceHz}}) - 1)
  *((uint32_t *)({{.Addr "SWO_CODR"}})) = ((SystemCoreClock /  {{.TraceHz}}) - 1); // SWO_CODR
  // SWO_SPPR : (2:  SWO NRZ, 1:  SWO Manchester encoding)
  *((uint32_t *)({{.Addr "SWO_SPPR"}})) = 0x00000002; // SWO_SPPR
  // SWTF_CTRL : enable SWO
  *((uint32_t *)({{.Addr "SWTF_CTRL"}})) |= 0x1; // SWTF_CTRL

  /* SWO GPIO Pin Setup */
  //RCC_AHB4ENR enable GPIOB clock
  *(__IO uint32_t*)({{.ADDR "RCC_AHB4ENR"}}) |= 0x00000002;
  // Configure GPIOB pin 3 as AF
  *(__IO uint32_t*)({{.ADDR "GPIOB_MODER"}}) = (*(__IO uint32_t*)({{.ADDR "GPIOB_MODER"}}) & 0xffffff3f) | 0x00000080;
  // Configure GPIOB pin 3 Speed
  *(__IO uint32_t*)({{.ADDR "GPIOB_OSPEEDR"}}) |= 0x00000080;
  // Force AF0 for GPIOB pin 3
  *(__IO uint32_t*)({{.ADDR "GPIOB_AFRL"}}) &= 0xFFFF0FFF;
}
`

const gdbInitTemplate = `#*****************************************************************************
# Enable ITM support (SWO Output)
# This is a workaround for openocd STM32H7 SWO support.
# Expects Core Clock of {{.CoreHz}}Hz for SWO speed of {{.TraceHz}}Hz
# Code Gen Ref: {{.Ref}}
#*****************************************************************************
# DBGMCU_CR : Enable D3DBGCKEN D1DBGCKEN TRACECLKEN Clock Domains
set *{{.ADDR "DBGMCU_CR"}} = 0x00700000
# SWO_LAR & SWTF_LAR : Unlock SWO and SWO Funnel
set *{{.Addr "SWO_LAR"}} = {{.Key}}
set *{{.Addr "SWTF_LAR"}} = {{.Key}}
# SWO_CODR  : systemCoreClock -> SWO_Hz == {{.CoreHz}}Hz -> {{.TraceHz}}Hz
# SWO_CODR  = {{.PrescalerHex}} = {{.Prescaler}} = ({{.CoreHz}} / {{.TraceHz}}) - 1)
set *{{.Addr "SWO_CODR"}} = {{.PrescalerHex}}
# SWO_SPPR  : (2:  SWO NRZ, 1:  SWO Manchester encoding)
set *{{.Addr "SWO_SPPR"}} = 0x00000002
# SWTF_CTRL : enable SWO
set *{{.Addr "SWTF_CTRL"}} = (*{{.Addr "SWTF_CTRL"}}) | 0x1
{{range .Monitor}}
{{.}}
{{- end}}
{{- if .WriteTCR}}
# ITM_LAR & ITM_TCR : Unlock ITM, TraceBusID {{.TraceID}}
set *{{.Addr "ITM_LAR"}} = {{.Key}}
set *{{.Addr "ITM_TCR"}} = {{.TCR}}
{{- end}}
`
