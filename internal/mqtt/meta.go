// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package mqtt

// ParamMeta carries the Home Assistant presentation metadata for one
// meter parameter.
type ParamMeta struct {
	Name        string
	Unit        string
	Icon        string
	DeviceClass string
	StateClass  string
}

// paramMeta maps parameter names to their Home Assistant properties.
// Parameters without an entry are announced with bare defaults.
var paramMeta = map[string]ParamMeta{
	"energy":         {Name: "Energy", Unit: "kWh", Icon: "mdi:flash", DeviceClass: "energy", StateClass: "total_increasing"},
	"power":          {Name: "Current Power", Unit: "W", Icon: "mdi:lightning-bolt", DeviceClass: "power"},
	"temp1":          {Name: "Temperature 1", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"temp2":          {Name: "Temperature 2", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"volume":         {Name: "Volume", Unit: "m³", Icon: "mdi:water", DeviceClass: "water", StateClass: "total_increasing"},
	"flow":           {Name: "Flow", Unit: "m³/h", Icon: "mdi:water-percent", DeviceClass: "volume_flow_rate"},
	"tempdiff":       {Name: "Temp Difference", Unit: "°C", Icon: "mdi:thermometer-minus", DeviceClass: "temperature_delta"},
	"minflow_m":      {Name: "Min Flow (Month)", Unit: "m³/h", Icon: "mdi:water-percent", DeviceClass: "volume_flow_rate"},
	"maxflow_m":      {Name: "Max Flow (Month)", Unit: "m³/h", Icon: "mdi:water-percent", DeviceClass: "volume_flow_rate"},
	"minflowDate_m":  {Name: "Min Flow Date (Month)", Icon: "mdi:calendar"},
	"maxflowDate_m":  {Name: "Max Flow Date (Month)", Icon: "mdi:calendar"},
	"minpower_m":     {Name: "Min Power (Month)", Unit: "W", Icon: "mdi:lightning-bolt", DeviceClass: "power"},
	"maxpower_m":     {Name: "Max Power (Month)", Unit: "W", Icon: "mdi:lightning-bolt", DeviceClass: "power"},
	"avgtemp1_m":     {Name: "Avg Temp 1 (Month)", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"avgtemp2_m":     {Name: "Avg Temp 2 (Month)", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"minpowerdate_m": {Name: "Min Power Date (Month)", Icon: "mdi:calendar"},
	"maxpowerdate_m": {Name: "Max Power Date (Month)", Icon: "mdi:calendar"},
	"minflow_y":      {Name: "Min Flow (Year)", Unit: "m³/h", Icon: "mdi:water-percent", DeviceClass: "volume_flow_rate"},
	"maxflow_y":      {Name: "Max Flow (Year)", Unit: "m³/h", Icon: "mdi:water-percent", DeviceClass: "volume_flow_rate"},
	"minflowdate_y":  {Name: "Min Flow Date (Year)", Icon: "mdi:calendar"},
	"maxflowdate_y":  {Name: "Max Flow Date (Year)", Icon: "mdi:calendar"},
	"minpower_y":     {Name: "Min Power (Year)", Unit: "W", Icon: "mdi:lightning-bolt", DeviceClass: "power"},
	"maxpower_y":     {Name: "Max Power (Year)", Unit: "W", Icon: "mdi:lightning-bolt", DeviceClass: "power"},
	"avgtemp1_y":     {Name: "Avg Temp 1 (Year)", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"avgtemp2_y":     {Name: "Avg Temp 2 (Year)", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"minpowerdate_y": {Name: "Min Power Date (Year)", Icon: "mdi:calendar"},
	"maxpowerdate_y": {Name: "Max Power Date (Year)", Icon: "mdi:calendar"},
	"temp1xm3":       {Name: "Temp 1 per m³", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"temp2xm3":       {Name: "Temp 2 per m³", Unit: "°C", Icon: "mdi:thermometer", DeviceClass: "temperature"},
	"infoevent":      {Name: "Info Event", Icon: "mdi:information"},
	"hourcounter":    {Name: "Hour Counter", Unit: "h", Icon: "mdi:clock"},
}
