// Package devicetypes provides the device type handlers registered with the
// assistant registry.
//
// Each handler maps one kind of configured device onto the voice assistant
// model. A record names the variable holding the live value:
//
//	LightSwitch   OnOffID       bool            OnOff
//	LightDimmer   BrightnessID  int|float 0-100 OnOff, Brightness
//	LightColor    ColorID       int 0xRRGGBB    OnOff, Brightness, ColorSetting
//	SceneSimple   SceneID       bool            Scene
//
// Handlers never fail: an unreachable variable makes Query report the device
// offline and Execute answer deviceOffline, and an unknown command answers
// notSupported.
package devicetypes
