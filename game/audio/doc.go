// Package audio plays the background music of the rover game.
//
// The music is a short synthesized melody looped forever. Player implements
// engine.AudioPlayer: Play and Pause flip a beep.Ctrl so the speaker keeps
// running and toggling is instant. The speaker is opened lazily on the first
// Play; when no audio device is available Play returns the init error and the
// game continues silently.
package audio
